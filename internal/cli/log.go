package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
)

// logLevelEnv overrides the default log level, e.g. BLOCKIFY_LOG_LEVEL=debug.
const logLevelEnv = "BLOCKIFY_LOG_LEVEL"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// resolveLevel picks the log level. --verbose and --quiet win over the
// environment; an unknown name in the environment is INVALID_CONFIG.
func resolveLevel(verbose, quiet bool, env string) (log.Level, error) {
	switch {
	case verbose && quiet:
		return 0, errors.New(errors.ErrCodeInvalidInput, "--verbose and --quiet are mutually exclusive")
	case verbose:
		return log.DebugLevel, nil
	case quiet:
		return log.ErrorLevel, nil
	}
	env = strings.TrimSpace(env)
	if env == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(env))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", logLevelEnv)
	}
	return level, nil
}

// progress times a batch and reports it as one structured log line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
