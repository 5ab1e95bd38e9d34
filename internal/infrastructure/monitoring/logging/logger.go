// Package logging provides the structured logging interface used across
// LexiFuzz and its zap-backed implementation. Components depend on the Logger
// interface defined here; go.uber.org/zap is not imported outside this package
// (tests excepted).
//
// Initialisation order in cmd/lexifuzz:
//
//  1. Load configuration.
//  2. Build a Logger from cfg.Log and install it with SetDefault.
//  3. Construct the extractor, injecting the Logger.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// -----------------------------------------------------------------------------
// Field: structured log field carrier
// -----------------------------------------------------------------------------

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Canonical field keys.
const (
	FieldError       = "error"
	FieldErrorCode   = "error_code"
	FieldErrorModule = "error_module"
	FieldOperation   = "operation"
	FieldDurationMs  = "duration_ms"
	FieldCategory    = "category"
	FieldMinRatio    = "min_ratio"
	FieldDictionary  = "dictionary"
)

// -- Convenience constructors --------------------------------------------------

// String constructs a Field with a string value.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Int64 constructs a Field with an int64 value.
func Int64(key string, val int64) Field { return Field{Key: key, Value: val} }

// Float64 constructs a Field with a float64 value.
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }

// Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Err captures an error under the "error" key. A nil error yields "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: FieldError, Value: "<nil>"}
	}
	return Field{Key: FieldError, Value: err.Error()}
}

// Any constructs a Field with an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// -----------------------------------------------------------------------------
// Level
// -----------------------------------------------------------------------------

// Level is a logging severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// String implements fmt.Stringer.
func (l Level) String() string { return string(l) }

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "warning":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("logging: unknown level %q", s)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// -----------------------------------------------------------------------------
// Logger interface
// -----------------------------------------------------------------------------

// Logger is the structured logging contract. Components receive a Logger via
// constructor injection.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs at FATAL level and then calls os.Exit(1).
	Fatal(msg string, fields ...Field)

	// With returns a child Logger that adds fields to every entry.
	With(fields ...Field) Logger

	// Named returns a child Logger whose name is appended to the parent's
	// with a period separator ("lexifuzz" → "lexifuzz.fuzzy_ner").
	Named(name string) Logger

	// WithError returns a child Logger carrying err under "error" and, for
	// an AppError, its code under "error_code". A nil err returns the
	// receiver.
	WithError(err error) Logger

	// Sync flushes buffered entries.
	Sync() error
}

// -----------------------------------------------------------------------------
// LogConfig: logger construction parameters
// -----------------------------------------------------------------------------

// LogConfig carries the parameters required to construct a Logger. It is
// populated from the "log" section of the configuration file.
type LogConfig struct {
	// Level: "debug", "info", "warn" or "error". Empty means "info".
	Level Level `mapstructure:"level" yaml:"level" json:"level"`

	// Format: "json" or "console". Empty means "json".
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// OutputPaths are zap sink URLs or file paths; "stdout" and "stderr" are
	// special. Nil means ["stderr"] so that stdout stays free for results.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths receive zap's internal errors. Nil means ["stderr"].
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`
}

// -----------------------------------------------------------------------------
// zapLogger: zap-backed Logger implementation
// -----------------------------------------------------------------------------

type zapLogger struct {
	z *zap.Logger
}

// toZapFields converts fields without reflection for the common types and
// falls back to zap.Any for the rest.
func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(errorFields(err)...)
}

func (l *zapLogger) Sync() error { return l.z.Sync() }

func errorFields(err error) []Field {
	fields := []Field{String(FieldError, err.Error())}
	if code := errors.GetCode(err); code != errors.CodeUnknown {
		fields = append(fields,
			String(FieldErrorCode, code.String()),
			String(FieldErrorModule, errors.ModuleForCode(code)))
	}
	return fields
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// NewLogger builds a Logger from cfg. Defaults are applied to unset fields:
//   - Level:            "info"
//   - Format:           "json"
//   - OutputPaths:      ["stderr"]
//   - ErrorOutputPaths: ["stderr"]
func NewLogger(cfg LogConfig) (Logger, error) {
	if cfg.OutputPaths == nil {
		cfg.OutputPaths = []string{"stderr"}
	}
	if len(cfg.OutputPaths) == 0 {
		return nil, fmt.Errorf("logging: at least one output path is required")
	}
	if cfg.ErrorOutputPaths == nil {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	level, err := ParseLevel(string(cfg.Level))
	if err != nil {
		return nil, err
	}

	console := cfg.Format == "console"
	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if console {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level.zapLevel()),
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

// NewConsoleLogger writes human-readable entries at or above level to w.
func NewConsoleLogger(w io.Writer, level Level) Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level.zapLevel())
	return &zapLogger{z: zap.New(core)}
}

// NewJSONLogger writes JSON entries at or above level to w.
func NewJSONLogger(w io.Writer, level Level) Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level.zapLevel())
	return &zapLogger{z: zap.New(core)}
}

// NewLoggerFromCore wraps an existing zapcore.Core, typically an observer
// core in tests.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// LogOperationDuration logs "operation completed" with the elapsed time since
// start in milliseconds.
func LogOperationDuration(l Logger, operation string, start time.Time, fields ...Field) {
	elapsed := time.Since(start)
	all := append([]Field{
		String(FieldOperation, operation),
		Float64(FieldDurationMs, float64(elapsed.Microseconds())/1000),
	}, fields...)
	l.Info("operation completed", all...)
}

// -----------------------------------------------------------------------------
// nopLogger
// -----------------------------------------------------------------------------

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...Field) {}
func (nopLogger) Info(_ string, _ ...Field)  {}
func (nopLogger) Warn(_ string, _ ...Field)  {}
func (nopLogger) Error(_ string, _ ...Field) {}
func (nopLogger) Fatal(_ string, _ ...Field) {}
func (n nopLogger) With(_ ...Field) Logger   { return n }
func (n nopLogger) Named(_ string) Logger    { return n }
func (n nopLogger) WithError(_ error) Logger { return n }
func (nopLogger) Sync() error                { return nil }

// NewNopLogger returns a Logger that discards all entries.
func NewNopLogger() Logger { return nopLogger{} }

// -----------------------------------------------------------------------------
// Global default Logger
// -----------------------------------------------------------------------------

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide default Logger. Nil is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default Logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}
