package models

import (
	"errors"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/sirupsen/logrus"
)

var ErrNotImplemented = errors.New(config.NotImplemented)

// RecognitionModel routes host commands to the single-shot and continuous models.
type RecognitionModel struct {
	app        *config.AppConfig
	simple     *SimpleRecognitionModel
	continuous *ContinuousRecognitionModel
	emitter    *EventEmitter
	logger     *logrus.Entry
}

func NewRecognitionModel(app *config.AppConfig, simple *SimpleRecognitionModel, continuous *ContinuousRecognitionModel, emitter *EventEmitter, logger *logrus.Logger) *RecognitionModel {
	if app == nil {
		app = config.GetConfig()
	}

	return &RecognitionModel{
		app:        app,
		simple:     simple,
		continuous: continuous,
		emitter:    emitter,
		logger:     logger.WithField("model", "recognition"),
	}
}

// Dispatch runs the command and returns its acknowledgement. Unknown
// commands return ErrNotImplemented.
func (m *RecognitionModel) Dispatch(method string, args map[string]interface{}) (interface{}, error) {
	log := m.logger.WithField("method", method)
	log.Debugln("received command")

	switch method {
	case config.CommandSimpleVoice:
		return m.startSimple(args, false)
	case config.CommandSimpleVoiceWithAssessment:
		return m.startSimple(args, true)
	case config.CommandIsContinuousRecognitionOn:
		return m.continuous.IsListening(), nil
	case config.CommandContinuousStream:
		return m.toggleContinuous(args, false)
	case config.CommandContinuousStreamWithAssessment:
		return m.toggleContinuous(args, true)
	case config.CommandCancelSimpleVoice:
		m.simple.CancelAll()
		return true, nil
	case config.CommandStopContinuousStream:
		m.continuous.Stop()
		return true, nil
	}

	log.Warnln("unknown command")
	return nil, ErrNotImplemented
}

func (m *RecognitionModel) startSimple(raw map[string]interface{}, withAssessment bool) (bool, error) {
	args, err := decodeRecognitionArgs(raw)
	if err != nil {
		return false, err
	}

	cfg := args.toEngineConfig(m.app, withAssessment, false)
	if _, err = m.simple.Start(cfg, withAssessment); err != nil {
		return false, err
	}
	return true, nil
}

// toggleContinuous acknowledges with false when a start attempt failed.
// Arguments are decoded only when a session is about to start.
func (m *RecognitionModel) toggleContinuous(raw map[string]interface{}, withAssessment bool) (bool, error) {
	var decodeErr error
	err := m.continuous.ToggleStartWith(func() (*engine.Config, error) {
		args, err := decodeRecognitionArgs(raw)
		if err != nil {
			decodeErr = err
			return nil, err
		}
		return args.toEngineConfig(m.app, withAssessment, true), nil
	}, withAssessment)

	switch {
	case decodeErr != nil:
		return false, decodeErr
	case errors.Is(err, ErrModelShutdown):
		return false, err
	case err != nil:
		return false, nil
	}
	return true, nil
}

// Shutdown stops all recognition and flushes pending events.
func (m *RecognitionModel) Shutdown() {
	m.continuous.Shutdown()
	m.simple.Shutdown()
	m.emitter.Close()
}
