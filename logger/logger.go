package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger. An empty logFilePath, or one
// that cannot be opened, logs to stdout. The returned closer releases the file.
func InitLogger(logFilePath, level string) io.Closer {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)

	var closer io.Closer = io.NopCloser(nil)
	logrus.SetOutput(os.Stdout)
	if logFilePath != "" {
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file (%s), using stdout: %v", logFilePath, err)
		} else {
			logrus.SetOutput(logFile)
			closer = logFile
		}
	}

	logrus.WithField("level", lvl.String()).Info("Logger initialized")
	return closer
}
