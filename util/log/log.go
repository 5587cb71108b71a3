// Package log defines a strict two-level logger, info and debug only,
// referenced from https://dave.cheney.net/2015/11/05/lets-talk-about-logging.
// The backend is log/slog, and the output can be a rotating file when the
// player runs windowed without a console attached.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	// InfoLevel outputs only calling Info*.
	// DebugLevel outputs all of outputting call, Info* and Debug*.
	InfoLevel = iota
	DebugLevel
)

// Options controls where and how much the logger writes.
// File accepts a path, or the specials "stdout" / "stderr".
type Options struct {
	Level      int
	File       string
	MaxSizeMB  int // rotation threshold when File is a real path. 0 means default.
	MaxBackups int
}

const defaultMaxSizeMB = 8

// Logger is a simple leveled logger. Concurrent use is OK.
type Logger struct {
	mu     sync.Mutex
	level  int
	sl     *slog.Logger
	closer io.Closer // non-nil when owning a rotating file
}

// New builds Logger from options. It never fails; an empty File falls
// back to stderr.
func New(opt Options) *Logger {
	var w io.Writer
	var closer io.Closer
	switch opt.File {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		size := opt.MaxSizeMB
		if size <= 0 {
			size = defaultMaxSizeMB
		}
		lj := &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    size,
			MaxBackups: opt.MaxBackups,
		}
		w = lj
		closer = lj
	}

	slogLevel := slog.LevelInfo
	if opt.Level >= DebugLevel {
		slogLevel = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	return &Logger{
		level:  opt.Level,
		sl:     slog.New(h),
		closer: closer,
	}
}

// Close releases the underlying file if the logger owns one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// SetLevel sets logging level, InfoLevel or DebugLevel.
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns current logging level.
func (l *Logger) Level() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Info(v ...interface{})                 { l.sl.Info(fmt.Sprint(v...)) }
func (l *Logger) Infof(format string, v ...interface{}) { l.sl.Info(fmt.Sprintf(format, v...)) }

func (l *Logger) Debug(v ...interface{}) {
	if l.Level() < DebugLevel {
		return
	}
	l.sl.Debug(fmt.Sprint(v...))
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.Level() < DebugLevel {
		return
	}
	l.sl.Debug(fmt.Sprintf(format, v...))
}

// ParseLevel converts a config word into a level constant.
// Unknown words map to InfoLevel.
func ParseLevel(s string) int {
	if strings.EqualFold(s, "debug") {
		return DebugLevel
	}
	return InfoLevel
}

var (
	stdMu sync.RWMutex
	std   = New(Options{})
)

// SetDefault replaces the package level logger used by the exported
// functions. The previous logger is returned so the caller may Close it.
func SetDefault(l *Logger) *Logger {
	stdMu.Lock()
	defer stdMu.Unlock()
	prev := std
	std = l
	return prev
}

func def() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

func Info(v ...interface{})                 { def().Info(v...) }
func Infof(format string, v ...interface{}) { def().Infof(format, v...) }
func Debug(v ...interface{})                { def().Debug(v...) }
func Debugf(format string, v ...interface{}) {
	def().Debugf(format, v...)
}

// SetLevel sets logging level to the default logger.
func SetLevel(level int) { def().SetLevel(level) }

// Level returns current logging level of the default logger.
func Level() int { return def().Level() }
