package factory

import (
	"strings"
	"time"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

func NewNatsConnection(appCnf *config.AppConfig) error {
	info := appCnf.NatsInfo
	log := appCnf.Logger.WithField("service", "nats")

	opts := []nats.Option{
		nats.Name(appCnf.HostChannel.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warnln("disconnected from NATS server")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("address", nc.ConnectedAddr()).Infoln("reconnected to NATS server")
		}),
	}
	if info.Token != "" {
		opts = append(opts, nats.Token(info.Token))
	} else if info.User != "" {
		opts = append(opts, nats.UserInfo(info.User, info.Password))
	}

	nc, err := nats.Connect(strings.Join(info.NatsUrls, ","), opts...)
	if err != nil {
		return err
	}
	appCnf.NatsConn = nc

	log.WithFields(logrus.Fields{
		"version": nc.ConnectedServerVersion(),
		"address": nc.ConnectedAddr(),
	}).Info("successfully connected to NATS server")

	return nil
}
