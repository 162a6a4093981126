package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	waitFor    = 2 * time.Second
	tick       = 5 * time.Millisecond
	testApiKey = "plugnmeet"
	testSecret = "zumyyYWqv7KR2kUqvYdq4z4sXg7XTBD2ljT6"
)

// stubRecognizer answers immediately without recognizing anything.
type stubRecognizer struct{}

func (stubRecognizer) OnRecognizing(func(string))        {}
func (stubRecognizer) OnRecognized(func(*engine.Result)) {}
func (stubRecognizer) OnCanceled(func(string))           {}
func (stubRecognizer) RecognizeOnce(context.Context) (*engine.Result, error) {
	return &engine.Result{Reason: engine.ReasonNoMatch}, nil
}
func (stubRecognizer) StartContinuous(context.Context) error { return nil }
func (stubRecognizer) StopContinuous(context.Context) error  { return nil }
func (stubRecognizer) Close()                                {}

type stubEngine struct{}

func (stubEngine) NewRecognizer(*engine.Config) (engine.Recognizer, error) {
	return stubRecognizer{}, nil
}

type recordingChannel struct {
	mu      sync.Mutex
	methods []string
}

func (c *recordingChannel) InvokeMethod(method string, _ interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.methods = append(c.methods, method)
}

func (c *recordingChannel) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.methods...)
}

var _ hostchannel.Channel = (*recordingChannel)(nil)

func newTestAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	app, err := config.New(&config.AppConfig{
		Client: config.ClientInfo{
			ApiKey: testApiKey,
			Secret: testSecret,
		},
		AzureSpeech: config.AzureSpeech{
			SubscriptionKey: "key",
			ServiceRegion:   "westeurope",
		},
	})
	require.NoError(t, err)
	return app
}

func newTestRecognitionController(t *testing.T) (*RecognitionController, *recordingChannel) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := newTestAppConfig(t)
	ch := new(recordingChannel)
	audio := audiosession.NewNoopController(logger)
	emitter := models.NewEventEmitter(ch, logger)

	ctx, cancel := context.WithCancel(context.Background())
	simple := models.NewSimpleRecognitionModel(ctx, stubEngine{}, audio, emitter, logger)
	continuous := models.NewContinuousRecognitionModel(ctx, stubEngine{}, audio, emitter, logger)
	rm := models.NewRecognitionModel(app, simple, continuous, emitter, logger)

	rc := NewRecognitionController(app, rm, nil, logger)
	t.Cleanup(func() {
		rc.Shutdown()
		cancel()
	})
	return rc, ch
}

func setupApp(t *testing.T) (*fiber.App, *RecognitionController, *recordingChannel) {
	rc, ch := newTestRecognitionController(t)
	auth := NewAuthController(rc.app)

	app := fiber.New()
	app.Get("/healthCheck", NewHealthCheckController(rc.app).HandleHealthCheck)
	api := app.Group("/api", auth.HandleAuthHeaderCheck)
	api.Post("/command/:method", rc.HandleCommand)
	return app, rc, ch
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
