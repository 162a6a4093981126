package routers

import (
	"io"
	"runtime"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/factory"
	"github.com/mynaparrot/plugnmeet-speech-bridge/version"
)

type router struct {
	app  *fiber.App
	ctrl *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	cnf := fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		AppName:               "speech-bridge version: " + version.Version + " runtime: " + runtime.Version(),
		DisableStartupMessage: !appConfig.Client.Debug,
	}

	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("speech-bridge")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	r := &router{
		app:  app,
		ctrl: ctrl,
	}
	r.registerBaseRoutes()
	r.registerAPIRoutes()

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", r.ctrl.HealthCheckController.HandleHealthCheck)
}

// registerAPIRoutes needs API-KEY & HASH-SIGNATURE headers.
func (r *router) registerAPIRoutes() {
	api := r.app.Group("/api", r.ctrl.AuthController.HandleAuthHeaderCheck)
	api.Post("/command/:method", r.ctrl.RecognitionController.HandleCommand)
}
