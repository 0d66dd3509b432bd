// Package obslog provides the process-wide structured logger, grounded on
// the teacher's internal/logger/logger.go Init/Close lifecycle (sync.Once
// guarded, file+console dual sink) but backed by logrus instead of a bare
// log.Logger, following chul81-go-hidproxy's Debugf/Infof/Warnf/Fatalf/
// SetLevel usage of the same library.
package obslog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log      = logrus.New()
	logFile  *os.File
	initOnce sync.Once
)

// Init opens dataDir/logs/core.log and wires the logger to write to it, and
// to stdout unless silent. level parses a logrus level name ("debug",
// "info", "warn", "error"); an empty string defaults to "info".
func Init(dataDir string, silent bool, level string) error {
	var err error

	initOnce.Do(func() {
		logDir := filepath.Join(dataDir, "logs")
		if mkErr := os.MkdirAll(logDir, 0o755); mkErr != nil {
			err = mkErr
			return
		}

		logPath := filepath.Join(logDir, "core.log")
		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return
		}

		var out io.Writer = logFile
		if !silent {
			out = io.MultiWriter(os.Stdout, logFile)
		}
		log.SetOutput(out)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		if level == "" {
			level = "info"
		}
		lvl, parseErr := logrus.ParseLevel(level)
		if parseErr != nil {
			err = parseErr
			return
		}
		log.SetLevel(lvl)
	})

	return err
}

// Close releases the log file. Safe to call even if Init was never called.
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Infof(format string, args ...interface{}) { log.Infof(format, args...) }
func Warnf(format string, args ...interface{}) { log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { log.Fatalf(format, args...) }
