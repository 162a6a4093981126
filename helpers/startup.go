package helpers

import (
	"context"
	"os"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/factory"
	"gopkg.in/yaml.v3"
)

// PrepareServer opens the connections the configured host channel needs.
// Redis is connected whenever redis_info is present so the health check can report on it.
func PrepareServer(ctx context.Context, appCnf *config.AppConfig) error {
	if appCnf.HostChannel.Driver == config.HostChannelDriverNats {
		if err := factory.NewNatsConnection(appCnf); err != nil {
			return err
		}
	}

	if appCnf.RedisInfo != nil {
		if err := factory.NewRedisConnection(ctx, appCnf); err != nil {
			return err
		}
	}

	return nil
}

func ReadYamlConfigFile(cnfFile string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(cnfFile)
	if err != nil {
		return nil, err
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, appCnf)
	if err != nil {
		return nil, err
	}

	// get current working dir
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	appCnf.RootWorkingDir = wd

	return appCnf, nil
}
