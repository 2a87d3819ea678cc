package lgr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mdobak/go-xerrors"
	"github.com/natefinch/lumberjack"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the process-wide structured logger. JSON to stdout and a
// rotating file in prod; text to stdout in dev.
var Logger *slog.Logger

var fileLogger = &lumberjack.Logger{
	Filename:   "bm-go.log",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7,    // days
	Compress:   true, // compress old logs
}

func init() {
	env := os.Getenv("RUN_TIME_ENV")
	if env == "dev" || env == "" {
		color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, "bm-go dev logging enabled")
		Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:       slog.LevelDebug,
			ReplaceAttr: replaceAttr,
		}))
		slog.SetDefault(Logger)
		return
	}

	Logger = slog.New(slog.NewJSONHandler(io.MultiWriter(os.Stdout, fileLogger), &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: replaceAttr,
	}))
	slog.SetDefault(Logger)
}

// TraceAttrs extracts the OTEL span identity from the context, if any,
// so callers can correlate log lines with traces.
func TraceAttrs(ctx context.Context) []any {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []any{
		slog.String("traceID", spanCtx.TraceID().String()),
		slog.String("spanID", spanCtx.SpanID().String()),
	}
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case error:
			a.Value = fmtErr(v)
		}
	}
	return a
}

// fmtErr formats an error as a group holding the message and,
// when the error carries one, its stack trace.
func fmtErr(err error) slog.Value {
	var groupValues []slog.Attr

	groupValues = append(groupValues, slog.String("msg", err.Error()))

	frames := marshalStack(err)
	if frames != nil {
		groupValues = append(groupValues, slog.Any("trace", frames))
	}

	return slog.GroupValue(groupValues...)
}

func marshalStack(err error) []stackFrame {
	trc := xerrors.StackTrace(err)
	if trc == nil {
		return nil
	}

	frames := trc.Frames()
	s := make([]stackFrame, len(frames))
	for i, v := range frames {
		s[i] = stackFrame{
			Source: filepath.Join(
				filepath.Base(filepath.Dir(v.File)),
				filepath.Base(v.File),
			),
			Func: filepath.Base(v.Function),
			Line: v.Line,
		}
	}

	return s
}

// Bannerf prints a colored startup banner line in dev mode.
func Bannerf(format string, args ...interface{}) {
	if os.Getenv("RUN_TIME_ENV") != "dev" && os.Getenv("RUN_TIME_ENV") != "" {
		return
	}
	color.New(color.FgCyan).Fprintln(os.Stdout, fmt.Sprintf(format, args...))
}
