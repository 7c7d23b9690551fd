package logger

import (
	"attendance-svc/src/internal/config"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger from the loaded configuration.
func Init(cfg *config.Configuration) {
	level, err := logrus.ParseLevel(cfg.Logs.Level)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown log level %q, falling back to info", cfg.Logs.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Logs.EnableJSONOutput {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
