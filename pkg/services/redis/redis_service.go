package redisservice

import (
	"context"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RedisService struct {
	rc      *redis.Client
	ctx     context.Context
	channel string
	logger  *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *RedisService {
	return &RedisService{
		rc:      app.RDS,
		ctx:     context.Background(),
		channel: app.HostEventsSubject(),
		logger:  logger.WithField("service", "redis"),
	}
}

// InvokeMethod publishes an event for the host application. It implements hostchannel.Channel.
func (s *RedisService) InvokeMethod(method string, arguments interface{}) {
	msg, err := hostchannel.MarshalEvent(method, arguments)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to marshal event %s", method)
		return
	}

	if err = s.PublishToChannel(s.channel, msg); err != nil {
		s.logger.WithError(err).Errorf("failed to publish event %s", method)
	}
}

func (s *RedisService) PublishToChannel(channel string, msg interface{}) error {
	_, err := s.rc.Publish(s.ctx, channel, msg).Result()
	return err
}
