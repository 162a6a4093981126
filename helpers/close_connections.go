package helpers

import (
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
)

func HandleCloseConnections(appCnf *config.AppConfig) {
	if appCnf == nil {
		return
	}

	if appCnf.NatsConn != nil {
		if err := appCnf.NatsConn.Drain(); err != nil {
			appCnf.NatsConn.Close()
		}
	}

	if appCnf.RDS != nil {
		_ = appCnf.RDS.Close()
	}
}
