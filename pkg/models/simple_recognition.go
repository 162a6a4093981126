package models

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/sirupsen/logrus"
)

var ErrModelShutdown = errors.New("recognition model is shutting down")

type recognitionTask struct {
	id        string
	cancelled bool
	cancel    context.CancelFunc
}

// SimpleRecognitionModel runs single-shot recognitions. At most one task is
// live at a time; starting a new one cancels the others. A cancelled task
// never emits another event.
type SimpleRecognitionModel struct {
	ctx     context.Context
	lock    sync.Mutex
	closing bool
	tasks   map[string]*recognitionTask
	wg      sync.WaitGroup
	engine  engine.Engine
	audio   audiosession.Controller
	emitter *EventEmitter
	logger  *logrus.Entry
}

func NewSimpleRecognitionModel(ctx context.Context, eng engine.Engine, audio audiosession.Controller, emitter *EventEmitter, logger *logrus.Logger) *SimpleRecognitionModel {
	return &SimpleRecognitionModel{
		ctx:     ctx,
		tasks:   make(map[string]*recognitionTask),
		engine:  eng,
		audio:   audio,
		emitter: emitter,
		logger:  logger.WithField("model", "simple_recognition"),
	}
}

// Start cancels every tracked task and launches a new one. Failures of the
// recognition itself are reported only through events.
func (m *SimpleRecognitionModel) Start(cfg *engine.Config, withAssessment bool) (string, error) {
	if err := m.ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelShutdown, err)
	}
	if !withAssessment && cfg.WithAssessment() {
		c := *cfg
		c.Assessment = nil
		cfg = &c
	}

	m.lock.Lock()
	if m.closing {
		m.lock.Unlock()
		return "", ErrModelShutdown
	}
	m.cancelAllLocked()

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(m.ctx)
	m.tasks[id] = &recognitionTask{id: id, cancel: cancel}
	simpleTasksActive.Set(float64(len(m.tasks)))
	m.wg.Add(1)
	m.lock.Unlock()

	simpleTasksStarted.Inc()
	go m.run(ctx, id, cfg, withAssessment)

	return id, nil
}

// CancelAll marks every tracked task as cancelled. Once it returns no event
// of those tasks will be emitted.
func (m *SimpleRecognitionModel) CancelAll() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.cancelAllLocked()
}

func (m *SimpleRecognitionModel) cancelAllLocked() {
	for id, t := range m.tasks {
		if t.cancelled {
			continue
		}
		t.cancelled = true
		t.cancel()
		simpleTasksCancelled.Inc()
		m.logger.WithField("taskId", id).Infoln("recognition task cancelled")
	}
}

// ActiveTasks returns the number of tracked tasks that aren't cancelled.
func (m *SimpleRecognitionModel) ActiveTasks() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// TrackedTasks returns the registry size, cancelled tasks included.
func (m *SimpleRecognitionModel) TrackedTasks() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.tasks)
}

// Shutdown cancels every task and waits for their goroutines to finish.
// Start fails with ErrModelShutdown afterwards.
func (m *SimpleRecognitionModel) Shutdown() {
	m.lock.Lock()
	m.closing = true
	m.cancelAllLocked()
	m.lock.Unlock()

	m.wg.Wait()
}

func (m *SimpleRecognitionModel) run(ctx context.Context, id string, cfg *engine.Config, withAssessment bool) {
	defer m.wg.Done()
	defer m.removeTask(id)

	log := m.logger.WithField("taskId", id)
	log.Infoln("starting single-shot recognition")

	if err := m.audio.Activate(audiosession.ModeRecordWithBluetooth); err != nil {
		log.WithError(err).Errorln("audio session configuration failed")
		return
	}

	if withAssessment && !cfg.WithAssessment() {
		log.Errorln("pronunciation assessment requested without assessment parameters")
		return
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Errorln("recognition config rejected")
		return
	}

	reco, err := m.engine.NewRecognizer(cfg)
	if err != nil {
		log.WithError(err).Errorln("failed to create recognizer")
		return
	}
	defer reco.Close()

	m.emitForTask(id, config.EventRecognitionStarted, nil)

	reco.OnRecognizing(func(text string) {
		if !m.emitForTask(id, config.EventSpeech, text) {
			log.Debugln("dropping interim result of cancelled task")
		}
	})

	result, err := reco.RecognizeOnce(ctx)
	m.finish(id, withAssessment, result, err, log)
}

// emitForTask emits only while the task is live. The check and the enqueue
// happen under the registry lock so CancelAll can't interleave.
func (m *SimpleRecognitionModel) emitForTask(id, event string, payload interface{}) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	t, ok := m.tasks[id]
	if !ok || t.cancelled {
		return false
	}
	m.emitter.Emit(event, payload)
	return true
}

func (m *SimpleRecognitionModel) finish(id string, withAssessment bool, result *engine.Result, err error, log *logrus.Entry) {
	m.lock.Lock()
	defer m.lock.Unlock()

	t, ok := m.tasks[id]
	if !ok || t.cancelled {
		log.Infoln("task was cancelled, ignoring final result")
		return
	}

	text, assessment := "", ""
	switch {
	case err != nil:
		log.WithError(err).Errorln("recognition failed")
	case result == nil:
		log.Errorln("engine returned no result")
	case !result.IsRecognizedSpeech():
		log.WithFields(logrus.Fields{
			"reason":  result.Reason.String(),
			"details": result.ErrorDetails,
		}).Infoln("no speech recognized")
	default:
		text, assessment = result.Text, result.AssessmentJSON
	}

	m.emitter.Emit(config.EventFinalResponse, text)
	if withAssessment {
		m.emitter.Emit(config.EventAssessmentResult, assessment)
	}
}

func (m *SimpleRecognitionModel) removeTask(id string) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if t, ok := m.tasks[id]; ok {
		t.cancel()
		delete(m.tasks, id)
	}
	simpleTasksActive.Set(float64(len(m.tasks)))
}
