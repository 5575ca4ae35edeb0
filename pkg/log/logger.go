package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	golemerrors "github.com/wmvanvliet/golem/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// SetupLogger installs a zerolog JSON logger on stderr at the given level and
// routes library warnings (pkg/errors.Warn) through it.
func SetupLogger(loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	zl := NewZerologLogger(os.Stderr, level)
	SetLogger(zl)
	golemerrors.SetZerologWarnFunc(zl.warn)
	return nil
}

// ToLogLevel parses one of "debug", "info", "warn" or "error".
func ToLogLevel(level string) (Level, error) {
	switch level {
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, golemerrors.NewValidationError("log.level", "must be one of debug, info, warn, error", level)
	}
}

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl    zerolog.Logger
	level Level
}

// NewZerologLogger creates a JSON logger writing to w.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl, level: level}
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.zl.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...any) {
	l.emit(l.zl.Error(), msg, fields)
}

// With returns a child logger carrying fields on every record.
func (l *ZerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	if err, rest, ok := leadingError(fields); ok {
		ctx = ctx.AnErr(ErrAttrKey, err)
		fields = rest
	}
	return &ZerologLogger{zl: ctx.Fields(normalizeFields(fields)).Logger(), level: l.level}
}

func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return level >= l.level && toZerologLevel(level) >= zerolog.GlobalLevel()
}

func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	if err, rest, ok := leadingError(fields); ok {
		ev = ev.AnErr(ErrAttrKey, err)
		if st := extractStacktrace(err); st != "" {
			ev = ev.Str(StacktraceAttrKey, st)
		}
		fields = rest
	}
	ev.Fields(normalizeFields(fields)).Msg(msg)
}

// warn is the hook handed to pkg/errors.SetZerologWarnFunc.
func (l *ZerologLogger) warn(w error) {
	ev := l.zl.Warn()
	if ev == nil {
		return
	}
	if m, ok := w.(zerolog.LogObjectMarshaler); ok {
		ev = ev.EmbedObject(m)
	}
	ev.Msg(w.Error())
}

func leadingError(fields []any) (error, []any, bool) {
	if len(fields) == 0 {
		return nil, fields, false
	}
	if err, ok := fields[0].(error); ok {
		return err, fields[1:], true
	}
	return nil, fields, false
}

// normalizeFields turns key/value pairs into a map so that error values are
// rendered by message and a dangling key does not shift the remaining pairs.
func normalizeFields(fields []any) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			out[key] = err.Error()
			continue
		}
		out[key] = fields[i+1]
	}
	if len(fields)%2 == 1 {
		out["!BADKEY"] = fields[len(fields)-1]
	}
	return out
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
