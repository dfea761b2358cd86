// Package logx provides the process-wide structured logger used by every
// component of the indexer. It wraps logrus rather than fmt.Print* so that
// the TU pipeline and stitcher can attach structured fields (tu, node_id,
// table) to every line.
package logx

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	SetLevel(os.Getenv("INDEXER_LOG_LEVEL"))
}

// SetLevel sets the global log level from one of error|warn|info|debug.
// An empty or unrecognized value defaults to info.
func SetLevel(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

// Entry is the handle returned by With* calls.
type Entry = logrus.Entry

func WithField(key string, value any) *Entry  { return log.WithField(key, value) }
func WithFields(fields Fields) *Entry         { return log.WithFields(fields) }
func WithError(err error) *Entry              { return log.WithError(err) }
func Debugf(format string, args ...any)       { log.Debugf(format, args...) }
func Infof(format string, args ...any)        { log.Infof(format, args...) }
func Warnf(format string, args ...any)        { log.Warnf(format, args...) }
func Errorf(format string, args ...any)       { log.Errorf(format, args...) }
func Debug(args ...any)                       { log.Debug(args...) }
func Info(args ...any)                        { log.Info(args...) }
func Warn(args ...any)                        { log.Warn(args...) }
func Error(args ...any)                       { log.Error(args...) }
