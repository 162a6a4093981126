package routers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/controllers"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/engine"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/factory"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/hostchannel"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

const (
	apiKey = "plugnmeet"
	secret = "zumyyYWqv7KR2kUqvYdq4z4sXg7XTBD2ljT6"
)

type idleRecognizer struct{}

func (idleRecognizer) OnRecognizing(func(string))        {}
func (idleRecognizer) OnRecognized(func(*engine.Result)) {}
func (idleRecognizer) OnCanceled(func(string))           {}
func (idleRecognizer) RecognizeOnce(ctx context.Context) (*engine.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
func (idleRecognizer) StartContinuous(context.Context) error { return nil }
func (idleRecognizer) StopContinuous(context.Context) error  { return nil }
func (idleRecognizer) Close()                                {}

type idleEngine struct{}

func (idleEngine) NewRecognizer(*engine.Config) (engine.Recognizer, error) {
	return idleRecognizer{}, nil
}

type discardChannel struct{}

func (discardChannel) InvokeMethod(string, interface{}) {}

type RouterTestSuite struct {
	suite.Suite
	app    *fiber.App
	rc     *controllers.RecognitionController
	cancel context.CancelFunc
}

func (s *RouterTestSuite) SetupSuite() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	appCnf, err := config.New(&config.AppConfig{
		Logger: logger,
		Client: config.ClientInfo{
			ApiKey: apiKey,
			Secret: secret,
			PrometheusConf: config.PrometheusConf{
				Enable: true,
			},
		},
		AzureSpeech: config.AzureSpeech{SubscriptionKey: "key", ServiceRegion: "westeurope"},
	})
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	var ch hostchannel.Channel = discardChannel{}
	audio := audiosession.NewNoopController(logger)
	emitter := models.NewEventEmitter(ch, logger)
	rm := models.NewRecognitionModel(appCnf,
		models.NewSimpleRecognitionModel(ctx, idleEngine{}, audio, emitter, logger),
		models.NewContinuousRecognitionModel(ctx, idleEngine{}, audio, emitter, logger),
		emitter, logger)
	s.rc = controllers.NewRecognitionController(appCnf, rm, nil, logger)

	s.app = New(appCnf, &factory.ApplicationControllers{
		AuthController:        controllers.NewAuthController(appCnf),
		HealthCheckController: controllers.NewHealthCheckController(appCnf),
		RecognitionController: s.rc,
	})
}

func (s *RouterTestSuite) TearDownSuite() {
	s.rc.Shutdown()
	s.cancel()
}

func (s *RouterTestSuite) Test_00_healthCheck() {
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterTestSuite) Test_01_unauthorized() {
	req := httptest.NewRequest(http.MethodPost, "/api/command/"+config.CommandSimpleVoice, nil)
	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterTestSuite) Test_02_startContinuous() {
	res := s.command(config.CommandContinuousStream, `{"languages":["en-US"]}`, http.StatusOK)
	s.True(res.Status)
	s.Equal(true, res.Result)
}

func (s *RouterTestSuite) Test_03_isContinuousOn() {
	res := s.command(config.CommandIsContinuousRecognitionOn, "", http.StatusOK)
	s.Equal(true, res.Result)
}

func (s *RouterTestSuite) Test_04_simpleVoice() {
	res := s.command(config.CommandSimpleVoiceWithAssessment, `{"referenceText":"hello"}`, http.StatusOK)
	s.Equal(true, res.Result)

	res = s.command(config.CommandCancelSimpleVoice, "", http.StatusOK)
	s.Equal(true, res.Result)
}

func (s *RouterTestSuite) Test_05_stopContinuous() {
	res := s.command(config.CommandStopContinuousStream, "", http.StatusOK)
	s.Equal(true, res.Result)

	res = s.command(config.CommandIsContinuousRecognitionOn, "", http.StatusOK)
	s.Equal(false, res.Result)
}

func (s *RouterTestSuite) Test_06_notImplemented() {
	res := s.command("synthesize", "", http.StatusNotImplemented)
	s.False(res.Status)
	s.Equal(config.NotImplemented, res.Msg)
}

func (s *RouterTestSuite) Test_07_metrics() {
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(b), "speech_bridge_events_emitted_total")
}

func (s *RouterTestSuite) Test_99_notFound() {
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/unknown", nil))
	s.Require().NoError(err)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *RouterTestSuite) command(method, body string, expectedStatus int) *hostchannel.CommandRes {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))

	req := httptest.NewRequest(http.MethodPost, "/api/command/"+method, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-KEY", apiKey)
	req.Header.Set("HASH-SIGNATURE", hex.EncodeToString(mac.Sum(nil)))

	resp, err := s.app.Test(req)
	s.Require().NoError(err)
	s.Equal(expectedStatus, resp.StatusCode)

	res := new(hostchannel.CommandRes)
	b, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Require().NoError(json.Unmarshal(b, res))
	return res
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
