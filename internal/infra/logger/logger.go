package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

const timeFormat = "2006-01-02 15:04:05"

// Logger writes every enabled entry to its primary sink and, when a console
// sink is attached, mirrors Info and above there.
type Logger struct {
	file    *log.Logger
	console *log.Logger
	closer  io.Closer
}

// New opens filePath for appending and optionally mirrors to stdout.
func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &Logger{
		file:   newCharm(f, level),
		closer: f,
	}

	// Debug stays in the file so the console remains readable
	if includeStdout {
		consoleLevel := level
		if consoleLevel < LevelInfo {
			consoleLevel = LevelInfo
		}
		l.console = newCharm(os.Stdout, consoleLevel)
	}

	return l, nil
}

// NewWithWriter builds a logger on an arbitrary writer. Used by the CLI
// commands that do not need a log file, and by tests with io.Discard.
func NewWithWriter(w io.Writer, level Level) *Logger {
	return &Logger{file: newCharm(w, level)}
}

func newCharm(w io.Writer, level Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		Level:           toCharm(level),
	})
}

func toCharm(lvl Level) log.Level {
	switch lvl {
	case LevelDebug:
		return log.DebugLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	case LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// WithPrefix returns a child logger whose entries carry prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	child := &Logger{file: l.file.WithPrefix(prefix)}
	if l.console != nil {
		child.console = l.console.WithPrefix(prefix)
	}
	return child
}

func (l *Logger) Debug(f string, v ...any) {
	l.file.Debugf(f, v...)
	if l.console != nil {
		l.console.Debugf(f, v...)
	}
}

func (l *Logger) Info(f string, v ...any) {
	l.file.Infof(f, v...)
	if l.console != nil {
		l.console.Infof(f, v...)
	}
}

func (l *Logger) Warn(f string, v ...any) {
	l.file.Warnf(f, v...)
	if l.console != nil {
		l.console.Warnf(f, v...)
	}
}

func (l *Logger) Error(f string, v ...any) {
	l.file.Errorf(f, v...)
	if l.console != nil {
		l.console.Errorf(f, v...)
	}
}

func (l *Logger) Fatal(f string, v ...any) {
	if l.console != nil {
		l.console.Errorf(f, v...)
	}
	// charm's Fatalf exits after writing
	l.file.Fatalf(f, v...)
}

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}

func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Since formats an elapsed duration the way progress lines expect it.
func Since(start time.Time) string {
	return time.Since(start).Truncate(time.Millisecond).String()
}
