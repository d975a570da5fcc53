package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New инициализирует логгер. В продакшн (GIN_MODE=release) пишет JSON начиная с Info, иначе текст с Debug.
// LOG_LEVEL, если задан и корректен, перекрывает уровень в обоих режимах.
func New(output io.Writer) *logrus.Logger {
	return newLogger(output, os.Getenv("GIN_MODE") == "release", os.Getenv("LOG_LEVEL"))
}

func newLogger(output io.Writer, release bool, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)

	if release {
		l.SetFormatter(&logrus.JSONFormatter{FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"}})
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		l.SetLevel(logrus.DebugLevel)
	}

	if level == "" {
		return l
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithError(err).Warnf("unknown LOG_LEVEL %q, keeping %s", level, l.GetLevel())
		return l
	}
	l.SetLevel(parsed)
	return l
}
