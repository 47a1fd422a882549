// Package logging configures the logrus logger for the two ways ltask runs:
// one-shot commands log to stderr, the terminal UI logs to a rotating file
// because it owns the screen.
package logging

import (
	"io"
	"path"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"ltask/internal/config"
)

// NewStderr returns a logger writing plain text to w. Only warnings and
// errors are shown unless debug is set.
func NewStderr(w io.Writer, debug bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	log.SetLevel(logrus.WarnLevel)
	if debug {
		log.SetLevel(logrus.DebugLevel)
		log.SetReportCaller(true)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			CallerPrettyfier: prettyCaller,
		})
	}
	return log
}

// NewFile returns a JSON logger writing to the rotating file named by cfg,
// plus the writer so the caller can close it.
func NewFile(cfg *config.Config) (*logrus.Logger, io.Closer) {
	w := NewLogWriter(cfg.LogPath(), cfg.Log)

	log := logrus.New()
	log.SetOutput(w)
	log.SetReportCaller(true)
	log.SetFormatter(&logrus.JSONFormatter{
		CallerPrettyfier: prettyCaller,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, w
}

// NewLogWriter returns a size-rotated log file writer.
func NewLogWriter(filename string, lc config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   true,
		LocalTime:  true,
	}
}

func prettyCaller(f *runtime.Frame) (function string, file string) {
	function = path.Base(f.Function)
	file = path.Base(f.File) + ":" + strconv.Itoa(f.Line)
	return
}
