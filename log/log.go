package log

import (
	"fmt"
	"time"

	"github.com/spf13/cast"
	"github.com/vuuvv/errors"
	"go.uber.org/zap"
)

// 未调用 qnet6.Setup 时不输出任何日志
var logger = zap.NewNop()

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetDefaultLogger also installs l as zap's global logger.
func SetDefaultLogger(l *zap.Logger) {
	if l == nil {
		return
	}
	zap.ReplaceGlobals(l)
}

// asError turns a recovered value into an error carrying the caller's stack.
func asError(reason any) error {
	switch v := reason.(type) {
	case nil:
		return errors.NewAndSkip("Unknown Error", 2)
	case error:
		return errors.WithStackAndSkip(v, 2)
	case fmt.Stringer:
		return errors.NewAndSkip(v.String(), 2)
	default:
		return errors.NewAndSkip(cast.ToString(v), 2)
	}
}

// Recovered logs a value recovered from a panic. The stack is part of the
// message only when debug output is on.
func Recovered(reason any, field ...zap.Field) {
	err := asError(reason)
	msg := err.Error()
	if logger.Core().Enabled(zap.DebugLevel) {
		msg = fmt.Sprintf("%+v", err)
	}
	logger.Error(msg, append(field, zap.Error(err))...)
}

// Rejected logs a frame that produced no usable result at the given stage:
// "parse" for a line that is not a frame, "decode" for a frame shorter than
// a transport header, "filter" for a filter that failed to evaluate.
func Rejected(stage string, index int, err error, field ...zap.Field) {
	logger.Warn("frame rejected",
		append(field, zap.String("stage", stage), zap.Int("index", index), zap.Error(err))...)
}

// Frame logs where a decoded frame stopped. Frames decoded to the end are
// not logged.
func Frame(index int, stopped error, offset int, field ...zap.Field) {
	if stopped == nil {
		return
	}
	logger.Debug("frame decoding stopped",
		append(field, zap.Int("index", index), zap.Int("offset", offset), zap.NamedError("reason", stopped))...)
}

// Scanned summarises a finished stream.
func Scanned(frames, rejected int, elapsed time.Duration) {
	logger.Info("stream scanned",
		zap.Int("frames", frames), zap.Int("rejected", rejected), zap.Duration("elapsed", elapsed))
}
