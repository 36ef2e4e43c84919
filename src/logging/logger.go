// Package logging provides the process-wide leveled logger used by the
// viewer and its tools. There is one global level, settable from config
// with "debug", "info", "warn" (or "warning") and "error"; calls below
// the level are dropped before any formatting happens.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) tag() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var level atomic.Int32

func init() { level.Store(int32(LevelInfo)) }

// sink is swapped out by tests to capture output.
var sink = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// SetLogLevel sets the global level by name. An unrecognized name keeps
// the current level; a config typo must not silence errors.
func SetLogLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Store(int32(LevelDebug))
	case "info":
		level.Store(int32(LevelInfo))
	case "warn", "warning":
		level.Store(int32(LevelWarn))
	case "error":
		level.Store(int32(LevelError))
	}
}

func emit(l Level, format string, args ...interface{}) {
	if Level(level.Load()) > l {
		return
	}
	// A call with no args carries an already-assembled message; running it
	// through fmt again would mangle literal % characters into %!x(MISSING).
	if len(args) == 0 {
		sink.Printf("[%s] %s", l.tag(), format)
		return
	}
	sink.Printf("[%s] %s", l.tag(), fmt.Sprintf(format, args...))
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a...) }

// TimeTrack logs the elapsed time of a phase at debug level:
//
//	defer logging.TimeTrack(time.Now(), "Engine.Generate")
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
