// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the diagnostic logger for one invocation. Conversion
// progress lines are printed separately; this logger only carries debug
// detail such as the config file in use and run timing.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "jpg2png",
		Level:           level,
	})
}

// runTimer measures a conversion run.
type runTimer struct {
	logger *log.Logger
	start  time.Time
}

func startRunTimer(l *log.Logger) runTimer {
	return runTimer{logger: l, start: time.Now()}
}

// finish logs the run summary with the elapsed wall time.
func (r runTimer) finish(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(r.start).Round(time.Millisecond))
	r.logger.Debug(msg, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when the command was run
// without PersistentPreRunE, as in some tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
