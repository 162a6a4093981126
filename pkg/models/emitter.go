package models

import (
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/sirupsen/logrus"
)

// EventEmitter delivers events to the host application through a single worker,
// so events reach the host in the order Emit was called.
type EventEmitter struct {
	mu      sync.Mutex
	closed  bool
	channel hostchannel.Channel
	queue   *workerpool.WorkerPool
	logger  *logrus.Entry
}

func NewEventEmitter(channel hostchannel.Channel, logger *logrus.Logger) *EventEmitter {
	return &EventEmitter{
		channel: channel,
		queue:   workerpool.New(1),
		logger:  logger.WithField("model", "emitter"),
	}
}

// Emit queues the event; it never blocks on the host channel.
func (e *EventEmitter) Emit(event string, payload interface{}) {
	method := config.EventPrefix + event

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		e.logger.Warnf("emitter closed, dropping event %s", method)
		return
	}

	e.queue.Submit(func() {
		e.channel.InvokeMethod(method, payload)
	})
	eventsEmitted.WithLabelValues(event).Inc()
}

// Close delivers the queued events and stops the worker.
func (e *EventEmitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.queue.StopWait()
}
