// Package logger is the process-wide structured logger for hunkdepd. It
// wraps zap with a compact key=value console encoder so ingest/query
// traces stay readable next to a terminal, rather than zap's default
// tab-separated console format or JSON.
package logger

import (
	"fmt"
	"os"

	"github.com/benchhq/hunkdep/pkg/ids"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger
var atom zap.AtomicLevel

// Create a buffer pool for our encoder
var bufferPool = buffer.NewPool()

func init() {
	atom = zap.NewAtomicLevel()
	atom.SetLevel(zapcore.InfoLevel)

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "lvl",
		NameKey:          zapcore.OmitKey,
		TimeKey:          zapcore.OmitKey,
		CallerKey:        zapcore.OmitKey,
		FunctionKey:      zapcore.OmitKey,
		StacktraceKey:    zapcore.OmitKey,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		newKVEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		atom,
	)

	log = zap.New(core)
}

type kvEncoder struct {
	zapcore.Encoder
	*zapcore.EncoderConfig
}

func newKVEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &kvEncoder{
		Encoder:       zapcore.NewConsoleEncoder(cfg),
		EncoderConfig: &cfg,
	}
}

func (e *kvEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := bufferPool.Get()

	line.AppendString(ent.Level.CapitalString())
	line.AppendString("    ")

	if ent.LoggerName != "" {
		line.AppendString("[")
		line.AppendString(ent.LoggerName)
		line.AppendString("] ")
	}

	if ent.Message != "" {
		line.AppendString(ent.Message)
		line.AppendString("  ")
	}

	for i, f := range fields {
		if i > 0 {
			line.AppendString(" ")
		}
		line.AppendString(f.Key)
		line.AppendString("=")

		switch f.Type {
		case zapcore.StringType:
			line.AppendString(f.String)
		case zapcore.BoolType:
			if f.Integer == 1 {
				line.AppendString("true")
			} else {
				line.AppendString("false")
			}
		default:
			line.AppendString(fmt.Sprint(f.Interface))
		}
	}

	line.AppendString("\n")

	return line, nil
}

// SetLevel parses one of debug, info, warn, error and applies it to the
// process-wide logger. An unrecognized level is left at whatever the
// logger was already running at.
func SetLevel(level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	atom.SetLevel(parsed)
	return nil
}

// L returns the underlying zap logger for callers that want to build
// their own field sets.
func L() *zap.Logger {
	return log
}

// Named returns a sub-logger tagged with name, the way pkg/api tags its
// request-completion lines "api" so they read apart from ingest/query
// tracing without either call site hand-building a zap.Field for it.
func Named(name string) *zap.Logger {
	return log.Named(name)
}

// StackID, CommitID, and Path are the recurring structured fields across
// the ingest/query log lines; kept here so call sites don't restate the
// key names.
func StackID(id ids.StackID) zap.Field   { return zap.String("stack_id", id.String()) }
func CommitID(id ids.CommitID) zap.Field { return zap.String("commit_id", id.String()) }
func Path(path string) zap.Field         { return zap.String("path", path) }
func Err(err error) zap.Field            { return zap.Error(err) }

// Scope is a contextual logger carrying the (stack, path) fields that
// recur across every tracker and store call for a given path, so those
// packages build the field set once per call instead of restating
// StackID/Path at every Warn/Info.
type Scope struct {
	fields []zap.Field
}

// For starts a Scope at the granularity pkg/tracker and pkg/store both
// operate at: one stack, one path.
func For(stackID ids.StackID, path string) Scope {
	return Scope{fields: []zap.Field{StackID(stackID), Path(path)}}
}

// WithCommit narrows a Scope to a single commit within that (stack, path),
// for the ingest call sites that know it.
func (s Scope) WithCommit(commitID ids.CommitID) Scope {
	narrowed := make([]zap.Field, len(s.fields), len(s.fields)+1)
	copy(narrowed, s.fields)
	return Scope{fields: append(narrowed, CommitID(commitID))}
}

func (s Scope) Warn(msg string, extra ...zap.Field) {
	log.Warn(msg, append(s.fields, extra...)...)
}

func (s Scope) Info(msg string, extra ...zap.Field) {
	log.Info(msg, append(s.fields, extra...)...)
}

func Error(err error) {
	log.Error("error", zap.Error(err))
}

func Errorf(template string, args ...interface{}) {
	log.Sugar().Errorf(template, args...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Warnf(template string, args ...interface{}) {
	log.Sugar().Warnf(template, args...)
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Infof(template string, args ...interface{}) {
	log.Sugar().Infof(template, args...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Debugf(template string, args ...interface{}) {
	log.Sugar().Debugf(template, args...)
}
