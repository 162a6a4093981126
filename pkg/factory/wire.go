//go:build wireinject
// +build wireinject

package factory

import (
	"context"

	"github.com/google/wire"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/controllers"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/models"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/services/nats"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/services/redis"
)

// build the dependency set for services
var serviceSet = wire.NewSet(
	natsservice.New,
	redisservice.New,
	provideHostChannel,
	provideAudioController,
	provideEngine,
)

// build the dependency set for models
var modelSet = wire.NewSet(
	models.NewEventEmitter,
	models.NewSimpleRecognitionModel,
	models.NewContinuousRecognitionModel,
	models.NewRecognitionModel,
)

// build the dependency set for controllers
var controllerSet = wire.NewSet(
	controllers.NewAuthController,
	controllers.NewHealthCheckController,
	controllers.NewRecognitionController,
)

// NewAppFactory is the injector function that wire will implement.
func NewAppFactory(ctx context.Context, appConfig *config.AppConfig) (*Application, error) {
	wire.Build(
		serviceSet,
		modelSet,
		controllerSet,
		wire.FieldsOf(new(*config.AppConfig), "Logger"),

		wire.Struct(new(ApplicationControllers), "*"),
		wire.Struct(new(Application), "*"),
	)
	return nil, nil // This return value is ignored.
}
