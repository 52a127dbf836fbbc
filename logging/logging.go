package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the run's logging sink. It is passed explicitly into the
// collector rather than accessed as process global state so the
// archive sink can splice the log output into the archive: Redirect()
// points the logger at a buffer for the duration of sample collection
// and the returned restore func points it back.
type Logger struct {
	mu  sync.Mutex
	log *logrus.Logger
}

func NewLogger() *Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})

	return &Logger{log: log}
}

func (self *Logger) SetDebug() {
	self.log.SetLevel(logrus.DebugLevel)
}

// Redirect points all subsequent log output at w. The returned
// restore func must be called on all exit paths.
func (self *Logger) Redirect(w io.Writer) func() {
	self.mu.Lock()
	defer self.mu.Unlock()

	old := self.log.Out
	self.log.SetOutput(w)

	return func() {
		self.mu.Lock()
		defer self.mu.Unlock()
		self.log.SetOutput(old)
	}
}

func (self *Logger) Verbose(format string, v ...interface{}) {
	self.log.Debugf(format, v...)
}

func (self *Logger) Info(format string, v ...interface{}) {
	self.log.Infof(format, v...)
}

func (self *Logger) Warn(format string, v ...interface{}) {
	self.log.Warnf(format, v...)
}

func (self *Logger) Error(format string, v ...interface{}) {
	self.log.Errorf(format, v...)
}

func (self *Logger) WithFields(fields logrus.Fields) *logrus.Entry {
	return self.log.WithFields(fields)
}
