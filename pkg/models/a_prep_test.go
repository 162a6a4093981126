package models

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() *engine.Config {
	return &engine.Config{
		SubscriptionKey: "key",
		Region:          "westeurope",
		Languages:       []string{"en-US"},
	}
}

func testAssessmentConfig() *engine.Config {
	cfg := testConfig()
	cfg.Assessment = &engine.AssessmentConfig{
		ReferenceText:   "hello",
		PhonemeAlphabet: "IPA",
		Granularity:     engine.GranularityPhoneme,
	}
	return cfg
}

// recordingChannel keeps every event delivered to the host.
type recordingChannel struct {
	mu     sync.Mutex
	events []hostchannel.Event
}

func (c *recordingChannel) InvokeMethod(method string, arguments interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, hostchannel.Event{Method: method, Arguments: arguments})
}

func (c *recordingChannel) all() []hostchannel.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]hostchannel.Event(nil), c.events...)
}

func (c *recordingChannel) methods() []string {
	var out []string
	for _, e := range c.all() {
		out = append(out, e.Method)
	}
	return out
}

func ev(name string) string {
	return config.EventPrefix + name
}

type fakeRecognizer struct {
	mu          sync.Mutex
	recognizing func(string)
	recognized  func(*engine.Result)
	canceled    func(string)

	result   *engine.Result
	onceErr  error
	running  chan struct{}
	release  chan struct{}
	startErr error
	stopErr  error
	// duringStart fires engine events before StartContinuous returns.
	duringStart func(r *fakeRecognizer)

	closed  bool
	stopped bool
}

func newFakeRecognizer() *fakeRecognizer {
	return &fakeRecognizer{
		running: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *fakeRecognizer) OnRecognizing(h func(string)) {
	r.mu.Lock()
	r.recognizing = h
	r.mu.Unlock()
}

func (r *fakeRecognizer) OnRecognized(h func(*engine.Result)) {
	r.mu.Lock()
	r.recognized = h
	r.mu.Unlock()
}

func (r *fakeRecognizer) OnCanceled(h func(string)) {
	r.mu.Lock()
	r.canceled = h
	r.mu.Unlock()
}

func (r *fakeRecognizer) RecognizeOnce(ctx context.Context) (*engine.Result, error) {
	close(r.running)
	select {
	case <-r.release:
		return r.result, r.onceErr
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *fakeRecognizer) StartContinuous(_ context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	if r.duringStart != nil {
		r.duringStart(r)
	}
	return nil
}

func (r *fakeRecognizer) StopContinuous(_ context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	return r.stopErr
}

func (r *fakeRecognizer) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *fakeRecognizer) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *fakeRecognizer) fireRecognizing(text string) {
	r.mu.Lock()
	h := r.recognizing
	r.mu.Unlock()
	if h != nil {
		h(text)
	}
}

func (r *fakeRecognizer) fireRecognized(res *engine.Result) {
	r.mu.Lock()
	h := r.recognized
	r.mu.Unlock()
	if h != nil {
		h(res)
	}
}

func (r *fakeRecognizer) fireCanceled(details string) {
	r.mu.Lock()
	h := r.canceled
	r.mu.Unlock()
	if h != nil {
		h(details)
	}
}

// finish makes RecognizeOnce return the given outcome.
func (r *fakeRecognizer) finish(res *engine.Result, err error) {
	r.result, r.onceErr = res, err
	close(r.release)
}

// waitRunning blocks until RecognizeOnce was entered.
func (r *fakeRecognizer) waitRunning(t *testing.T) {
	t.Helper()
	select {
	case <-r.running:
	case <-time.After(waitFor):
		t.Fatal("recognizer never started")
	}
}

// fakeEngine hands out the queued recognizers in order.
type fakeEngine struct {
	mu      sync.Mutex
	queue   []*fakeRecognizer
	configs []*engine.Config
	err     error
}

func (e *fakeEngine) push(r ...*fakeRecognizer) {
	e.mu.Lock()
	e.queue = append(e.queue, r...)
	e.mu.Unlock()
}

func (e *fakeEngine) NewRecognizer(cfg *engine.Config) (engine.Recognizer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configs = append(e.configs, cfg)
	if e.err != nil {
		return nil, e.err
	}
	if len(e.queue) == 0 {
		return nil, errors.New("no recognizer queued")
	}
	r := e.queue[0]
	e.queue = e.queue[1:]
	return r, nil
}

func (e *fakeEngine) lastConfig() *engine.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.configs) == 0 {
		return nil
	}
	return e.configs[len(e.configs)-1]
}

// failingAudio rejects every activation.
type failingAudio struct {
	*audiosession.NoopController
}

func newFailingAudio() failingAudio {
	return failingAudio{audiosession.NewNoopController(testLogger())}
}

func (failingAudio) Activate(audiosession.Mode) error {
	return audiosession.ErrActivation
}

type testRig struct {
	channel    *recordingChannel
	engine     *fakeEngine
	audio      audiosession.Controller
	emitter    *EventEmitter
	simple     *SimpleRecognitionModel
	continuous *ContinuousRecognitionModel
	cancel     context.CancelFunc
}

func newTestRig(t *testing.T, audio audiosession.Controller) *testRig {
	t.Helper()
	logger := testLogger()
	if audio == nil {
		audio = audiosession.NewNoopController(logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	rig := &testRig{
		channel: new(recordingChannel),
		engine:  new(fakeEngine),
		audio:   audio,
		cancel:  cancel,
	}
	rig.emitter = NewEventEmitter(rig.channel, logger)
	rig.simple = NewSimpleRecognitionModel(ctx, rig.engine, audio, rig.emitter, logger)
	rig.continuous = NewContinuousRecognitionModel(ctx, rig.engine, audio, rig.emitter, logger)

	t.Cleanup(func() {
		rig.continuous.Shutdown()
		rig.simple.Shutdown()
		rig.emitter.Close()
		cancel()
	})
	return rig
}

// settle flushes the emitter queue so assertions see every queued event.
func (rig *testRig) settle(t *testing.T) {
	t.Helper()
	done := make(chan struct{})
	rig.emitter.queue.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("emitter queue didn't drain")
	}
}

func (rig *testRig) waitMethods(t *testing.T, expected ...string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return len(rig.channel.methods()) >= len(expected)
	}, waitFor, tick)
	assert.Equal(t, expected, rig.channel.methods())
}
