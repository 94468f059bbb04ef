// Package logger builds the process logger: a zap JSON core writing to
// stderr, exposed to the rest of kvlens as a logr.Logger.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/kvlens/pkg/settings"
)

const (
	CommitKey    = "commit"
	VersionKey   = "version"
	BuildTimeKey = "build_time"
	GoVersionKey = "go_version"
	TimeStampKey = "timestamp"
	MessageKey   = "message"
)

// DebugLevel is the zap level that enables logr V(1) messages.
const DebugLevel int8 = -1

// DefaultLevel drops everything below warnings.
const DefaultLevel int8 = 1

var (
	once sync.Once

	// globalZap is kept for Sync.
	globalZap    *zap.Logger
	globalLogger = logr.Discard()
)

// New builds a JSON logger writing to w. Entries below level are dropped;
// logr verbosity n maps to zap level -n, so level -1 shows V(1).
func New(w io.Writer, level int8) (logr.Logger, *zap.Logger) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zap.NewAtomicLevelAt(zapcore.Level(level)),
	).With([]zapcore.Field{
		zap.String(CommitKey, settings.VersionInformation.Commit),
		zap.String(VersionKey, settings.VersionInformation.BuildVersion),
		zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
		zap.String(GoVersionKey, goVersion),
	})

	zl := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.WithFatalHook(zapcore.WriteThenPanic),
	)
	return zapr.NewLogger(zl), zl
}

// Get initializes the process logger on stderr the first time it is called
// and returns it. Later calls ignore level.
func Get(level int8) logr.Logger {
	once.Do(func() {
		globalLogger, globalZap = New(os.Stderr, level)
	})
	return globalLogger
}

// Global returns the process logger, or a discarding logger before Get.
func Global() logr.Logger {
	return globalLogger
}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

// FromContext returns the logger carried by ctx, falling back to Global.
func FromContext(ctx context.Context) logr.Logger {
	if l, err := logr.FromContext(ctx); err == nil {
		return l
	}
	return Global()
}

// Sync flushes buffered entries. Errors from syncing a terminal or pipe are
// ignored.
func Sync() {
	if globalZap == nil {
		return
	}
	if err := globalZap.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// Windows consoles return ERROR_INVALID_HANDLE wrapped in *os.PathError,
// which is not syscall.EINVAL, hence the string match.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}
