package controllers

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/models"
	natsservice "github.com/mynaparrot/plugnmeet-speech-bridge/pkg/services/nats"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// RecognitionController receives host commands over http and nats.
type RecognitionController struct {
	app              *config.AppConfig
	recognitionModel *models.RecognitionModel
	natsService      *natsservice.NatsService
	sub              *nats.Subscription
	logger           *logrus.Entry
}

func NewRecognitionController(app *config.AppConfig, recognitionModel *models.RecognitionModel, natsService *natsservice.NatsService, logger *logrus.Logger) *RecognitionController {
	return &RecognitionController{
		app:              app,
		recognitionModel: recognitionModel,
		natsService:      natsService,
		logger:           logger.WithField("controller", "recognition"),
	}
}

// HandleCommand runs the command named in the path. The body is the
// argument object of the command and may be empty.
func (rc *RecognitionController) HandleCommand(c *fiber.Ctx) error {
	method := c.Params("method")
	if method == "" {
		return sendCommonResponse(c.Status(fiber.StatusBadRequest), false, config.MethodRequired)
	}

	args := make(map[string]interface{})
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			return sendCommonResponse(c.Status(fiber.StatusBadRequest), false, config.InvalidRequestBody)
		}
	}

	res, err := rc.execute(method, args)
	if errors.Is(err, models.ErrNotImplemented) {
		c.Status(fiber.StatusNotImplemented)
	}
	return c.JSON(res)
}

// HandleNatsCommand is the request/reply counterpart of HandleCommand.
func (rc *RecognitionController) HandleNatsCommand(req *hostchannel.CommandReq) *hostchannel.CommandRes {
	if req.Method == "" {
		return &hostchannel.CommandRes{Status: false, Msg: config.MethodRequired}
	}
	res, _ := rc.execute(req.Method, req.Arguments)
	return res
}

func (rc *RecognitionController) execute(method string, args map[string]interface{}) (*hostchannel.CommandRes, error) {
	result, err := rc.recognitionModel.Dispatch(method, args)
	if err != nil {
		rc.logger.WithError(err).WithField("method", method).Warnln("command failed")
		return &hostchannel.CommandRes{
			Status: false,
			Msg:    err.Error(),
			Result: result,
		}, err
	}

	return &hostchannel.CommandRes{
		Status: true,
		Result: result,
	}, nil
}

// StartSubscription listens for commands on nats when it's connected.
func (rc *RecognitionController) StartSubscription() error {
	if rc.app.NatsConn == nil {
		rc.logger.Infoln("nats not connected, commands accepted over http only")
		return nil
	}

	sub, err := rc.natsService.SubscribeToCommands(rc.HandleNatsCommand)
	if err != nil {
		return err
	}
	rc.sub = sub
	rc.logger.WithField("subject", rc.app.HostCommandSubject()).Infoln("listening for commands")

	return nil
}

func (rc *RecognitionController) Shutdown() {
	if rc.sub != nil {
		if err := rc.sub.Drain(); err != nil {
			rc.logger.WithError(err).Warnln("failed to drain command subscription")
		}
	}
	rc.recognitionModel.Shutdown()
}
