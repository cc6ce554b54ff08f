// Package logger exposes the shared application logger. Log level comes from
// the LOG_LEVEL environment variable and defaults to info.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// L is the shared logger instance. Init must be called once at startup;
// before that, L behaves as a default logrus logger.
var L = logrus.New()

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// Init configures the shared logger: stdout output, full-timestamp text
// format, level from LOG_LEVEL and an app-name prefix on every line.
func Init(appName string) {
	L.SetOutput(os.Stdout)

	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		L.Warnf("invalid LOG_LEVEL %q, defaulting to info", levelStr)
		level = logrus.InfoLevel
	}
	L.SetLevel(level)

	L.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	L.AddHook(&appNameHook{appName: appName})
}
