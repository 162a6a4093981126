package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mynaparrot/plugnmeet-speech-bridge/helpers"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/factory"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/logging"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/routers"
	"github.com/mynaparrot/plugnmeet-speech-bridge/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Printf("%s\n", c.Version)
	}

	app := &cli.Command{
		Name:        "plugnmeet-speech-bridge",
		Usage:       "Azure speech recognition bridge for host applications",
		Description: "without option will start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Configuration file",
				DefaultText: "config.yaml",
				Value:       "config.yaml",
			},
		},
		Action:  startServer,
		Version: version.Version,
	}
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Fatalln(err)
	}
}

func startServer(ctx context.Context, c *cli.Command) error {
	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"))
	if err != nil {
		return err
	}
	// set this config for global usage
	appCnf, err = config.New(appCnf)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&appCnf.LogSettings)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to setup logger")
	}
	appCnf.Logger = logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// now prepare our server
	err = helpers.PrepareServer(ctx, appCnf)
	if err != nil {
		logger.Fatalln(err)
	}
	defer helpers.HandleCloseConnections(appCnf)

	// recognitions outlive the signal until Shutdown cancelled them
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	appFactory, err := factory.NewAppFactory(appCtx, appCnf)
	if err != nil {
		logger.Fatalln(err)
	}

	// boot up some services
	if err = appFactory.Boot(); err != nil {
		logger.Fatalln(err)
	}

	rt := routers.New(appFactory.AppConfig, appFactory.Controllers)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rt.Listen(fmt.Sprintf(":%d", appCnf.Client.Port))
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Infoln("exit requested, shutting down")
		// stop taking commands before recognitions are torn down
		err := rt.Shutdown()
		appFactory.Shutdown()
		cancelApp()
		return err
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Errorln("server stopped with error")
		return err
	}
	return nil
}
