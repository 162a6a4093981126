package factory

import (
	"context"

	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/audiosession"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/controllers"
)

// ApplicationControllers holds all the controllers.
type ApplicationControllers struct {
	AuthController        *controllers.AuthController
	HealthCheckController *controllers.HealthCheckController
	RecognitionController *controllers.RecognitionController
}

// Application is the root struct holding all dependencies.
type Application struct {
	Controllers *ApplicationControllers
	AppConfig   *config.AppConfig
	Ctx         context.Context
	audio       audiosession.Controller
}

func (a *Application) Boot() error {
	return a.Controllers.RecognitionController.StartSubscription()
}

// Shutdown stops every recognition, flushes pending events and releases the audio device.
func (a *Application) Shutdown() {
	a.Controllers.RecognitionController.Shutdown()
	if err := a.audio.Close(); err != nil {
		a.AppConfig.Logger.WithError(err).Warnln("failed to close audio session")
	}
}
