package logging

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/DeRuina/timberjack"
	"github.com/mynaparrot/plugnmeet-speech-bridge/pkg/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxSize    = 20
	defaultMaxBackups = 5
	defaultMaxAge     = 30
)

// NewLogger creates and configures a new logrus.Logger based on the provided configuration.
func NewLogger(cfg *config.LogSettings) (*logrus.Logger, error) {
	logger := logrus.New()

	logLevel := logrus.InfoLevel
	if cfg.LogLevel != nil && *cfg.LogLevel != "" {
		if lv, err := logrus.ParseLevel(strings.ToLower(*cfg.LogLevel)); err == nil {
			logLevel = lv
		}
	}
	logger.SetLevel(logLevel)

	var output io.Writer = os.Stdout
	if cfg.LogFile != "" {
		fileLogger := &timberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    valueOr(cfg.MaxSize, defaultMaxSize),
			MaxBackups: valueOr(cfg.MaxBackups, defaultMaxBackups),
			MaxAge:     valueOr(cfg.MaxAge, defaultMaxAge),
		}
		// write to both stdout and the file
		output = io.MultiWriter(os.Stdout, fileLogger)
		logrus.New().Infof("File logging enabled, writing to %s", cfg.LogFile)
	}
	logger.SetOutput(output)

	textFormatter := &logrus.TextFormatter{
		FullTimestamp: true,
		// our SourceFormatter adds the caller itself
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return "", ""
		},
		ForceColors: cfg.LogFile == "",
	}

	logger.SetFormatter(&SourceFormatter{
		Underlying: textFormatter,
		AddSpace:   true,
	})
	logger.SetReportCaller(true)

	return logger, nil
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
