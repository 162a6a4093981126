package natsservice

import (
	"github.com/goccy/go-json"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

type NatsService struct {
	app    *config.AppConfig
	nc     *nats.Conn
	logger *logrus.Entry
}

func New(app *config.AppConfig, logger *logrus.Logger) *NatsService {
	if app == nil {
		app = config.GetConfig()
	}

	return &NatsService{
		app:    app,
		nc:     app.NatsConn,
		logger: logger.WithField("service", "nats"),
	}
}

// InvokeMethod publishes an event for the host application. It implements hostchannel.Channel.
func (s *NatsService) InvokeMethod(method string, arguments interface{}) {
	msg, err := hostchannel.MarshalEvent(method, arguments)
	if err != nil {
		s.logger.WithError(err).Errorf("failed to marshal event %s", method)
		return
	}

	if err = s.nc.Publish(s.app.HostEventsSubject(), msg); err != nil {
		s.logger.WithError(err).Errorf("failed to publish event %s", method)
	}
}

// SubscribeToCommands listens for command requests and replies with the handler's response.
func (s *NatsService) SubscribeToCommands(handler func(req *hostchannel.CommandReq) *hostchannel.CommandRes) (*nats.Subscription, error) {
	return s.nc.Subscribe(s.app.HostCommandSubject(), func(msg *nats.Msg) {
		req := new(hostchannel.CommandReq)
		var res *hostchannel.CommandRes

		if err := json.Unmarshal(msg.Data, req); err != nil {
			res = &hostchannel.CommandRes{Status: false, Msg: config.InvalidRequestBody}
		} else {
			res = handler(req)
		}

		if msg.Reply == "" {
			return
		}
		data, err := json.Marshal(res)
		if err != nil {
			s.logger.WithError(err).Errorln("failed to marshal command response")
			return
		}
		if err = msg.Respond(data); err != nil {
			s.logger.WithError(err).Errorln("failed to respond to command")
		}
	})
}
