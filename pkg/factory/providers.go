package factory

import (
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine/providers/azure"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	natsservice "github.com/mynaparrot/plugnmeet-speech-bridge/pkg/services/nats"
	redisservice "github.com/mynaparrot/plugnmeet-speech-bridge/pkg/services/redis"
	"github.com/sirupsen/logrus"
)

// provideHostChannel selects where events are published.
func provideHostChannel(app *config.AppConfig, ns *natsservice.NatsService, rs *redisservice.RedisService) hostchannel.Channel {
	if app.HostChannel.Driver == config.HostChannelDriverRedis {
		return rs
	}
	return ns
}

func provideAudioController(app *config.AppConfig, logger *logrus.Logger) audiosession.Controller {
	if app.AudioSession.Driver == config.AudioSessionDriverPortAudio {
		return audiosession.NewPortAudioController(app.AudioSession.BluetoothKeyword, logger)
	}
	return audiosession.NewNoopController(logger)
}

func provideEngine(logger *logrus.Logger) engine.Engine {
	return azure.NewProvider(logger)
}
