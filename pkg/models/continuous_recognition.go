package models

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/sirupsen/logrus"
)

const engineOperationTimeout = 30 * time.Second

type continuousState int

const (
	stateIdle continuousState = iota
	stateListening
)

func (s continuousState) String() string {
	if s == stateListening {
		return "listening"
	}
	return "idle"
}

// continuousSession orders the engine callbacks of one session. Events fired
// before the session start was confirmed are held back, events after stop are dropped.
type continuousSession struct {
	mu      sync.Mutex
	started bool
	stopped bool
	pending []func()
	reco    engine.Recognizer
}

func (s *continuousSession) deliver(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.stopped:
		return
	case !s.started:
		s.pending = append(s.pending, fn)
	default:
		fn()
	}
}

func (s *continuousSession) markStarted(first func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	first()
	for _, fn := range s.pending {
		fn()
	}
	s.pending = nil
	s.started = true
}

func (s *continuousSession) markStopped(last func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.pending = nil
	last()
}

// ContinuousRecognitionModel is a toggle between idle and listening.
// Every public call is serialized, so IsListening always reflects a settled state.
type ContinuousRecognitionModel struct {
	ctx     context.Context
	lock    sync.Mutex
	state   continuousState
	closing bool
	session *continuousSession
	engine  engine.Engine
	audio   audiosession.Controller
	emitter *EventEmitter
	logger  *logrus.Entry
}

func NewContinuousRecognitionModel(ctx context.Context, eng engine.Engine, audio audiosession.Controller, emitter *EventEmitter, logger *logrus.Logger) *ContinuousRecognitionModel {
	return &ContinuousRecognitionModel{
		ctx:     ctx,
		state:   stateIdle,
		engine:  eng,
		audio:   audio,
		emitter: emitter,
		logger:  logger.WithField("model", "continuous_recognition"),
	}
}

// ToggleStart starts a session when idle and stops the running one otherwise.
// An error means the start failed and the model stayed idle.
func (m *ContinuousRecognitionModel) ToggleStart(cfg *engine.Config, withAssessment bool) error {
	return m.ToggleStartWith(func() (*engine.Config, error) {
		return cfg, nil
	}, withAssessment)
}

// ToggleStartWith is ToggleStart with the config built only when a session
// is about to start, so a stop never depends on the start arguments.
func (m *ContinuousRecognitionModel) ToggleStartWith(build func() (*engine.Config, error), withAssessment bool) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state == stateListening {
		m.stopFromListening()
		return nil
	}

	if m.closing {
		return ErrModelShutdown
	}
	if err := m.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrModelShutdown, err)
	}

	cfg, err := build()
	if err != nil {
		return err
	}
	return m.startFromIdle(cfg, withAssessment)
}

// Stop ends the running session. It does nothing when idle.
func (m *ContinuousRecognitionModel) Stop() {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state == stateListening {
		m.stopFromListening()
	}
}

func (m *ContinuousRecognitionModel) IsListening() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state == stateListening
}

// Shutdown stops the running session. Later starts are rejected with ErrModelShutdown.
func (m *ContinuousRecognitionModel) Shutdown() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.closing = true
	if m.state == stateListening {
		m.stopFromListening()
	}
}

func (m *ContinuousRecognitionModel) startFromIdle(cfg *engine.Config, withAssessment bool) error {
	if !withAssessment && cfg.WithAssessment() {
		c := *cfg
		c.Assessment = nil
		cfg = &c
	}

	if err := m.audio.Activate(audiosession.ModePlayAndRecord); err != nil {
		m.logger.WithError(err).Errorln("audio session configuration failed")
		return err
	}

	reco, err := m.prepareRecognizer(cfg, withAssessment)
	if err != nil {
		m.logger.WithError(err).Errorln("failed to prepare continuous recognition")
		m.releaseAudio()
		return err
	}

	session := &continuousSession{reco: reco}
	m.registerHandlers(session, withAssessment)

	ctx, cancel := context.WithTimeout(m.ctx, engineOperationTimeout)
	defer cancel()
	if err = reco.StartContinuous(ctx); err != nil {
		m.logger.WithError(err).Errorln("failed to start continuous recognition")
		reco.Close()
		m.releaseAudio()
		return err
	}

	session.markStarted(func() {
		m.emitter.Emit(config.EventRecognitionStarted, nil)
	})
	m.session = session
	m.setState(stateListening)

	return nil
}

func (m *ContinuousRecognitionModel) prepareRecognizer(cfg *engine.Config, withAssessment bool) (engine.Recognizer, error) {
	if withAssessment && !cfg.WithAssessment() {
		return nil, fmt.Errorf("%w: missing assessment parameters", engine.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return m.engine.NewRecognizer(cfg)
}

func (m *ContinuousRecognitionModel) registerHandlers(session *continuousSession, withAssessment bool) {
	session.reco.OnRecognizing(func(text string) {
		session.deliver(func() {
			m.emitter.Emit(config.EventSpeech, text)
		})
	})

	session.reco.OnRecognized(func(result *engine.Result) {
		if result == nil || result.Text == "" {
			m.logger.Debugln("utterance finalized without text")
			return
		}
		text, assessment := result.Text, result.AssessmentJSON
		session.deliver(func() {
			m.emitter.Emit(config.EventFinalResponse, text)
			if withAssessment {
				m.emitter.Emit(config.EventAssessmentResult, assessment)
			}
		})
	})

	session.reco.OnCanceled(func(details string) {
		m.logger.WithField("details", details).Warnln("continuous recognition cancelled by engine")
	})
}

func (m *ContinuousRecognitionModel) stopFromListening() {
	session := m.session

	ctx, cancel := context.WithTimeout(context.Background(), engineOperationTimeout)
	defer cancel()
	if err := session.reco.StopContinuous(ctx); err != nil {
		m.logger.WithError(err).Errorln("error while stopping continuous recognition")
	}

	session.markStopped(func() {
		m.emitter.Emit(config.EventRecognitionStopped, nil)
	})
	session.reco.Close()

	m.session = nil
	m.setState(stateIdle)
	m.releaseAudio()
}

func (m *ContinuousRecognitionModel) releaseAudio() {
	if err := m.audio.DeactivateToPlayback(); err != nil {
		m.logger.WithError(err).Warnln("failed to switch audio session back to playback")
	}
}

func (m *ContinuousRecognitionModel) setState(s continuousState) {
	m.logger.Infof("continuous recognition %s -> %s", m.state, s)
	m.state = s
	if s == stateListening {
		continuousListening.Set(1)
	} else {
		continuousListening.Set(0)
	}
}
