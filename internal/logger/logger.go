package logger

import (
	"log/slog"
	"os"
)

func Init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.Info("logger initialized")
}

func Info(msg string, fields map[string]any) {
	slog.Info(msg, args(fields)...)
}

func Warn(msg string, fields map[string]any) {
	slog.Warn(msg, args(fields)...)
}

func Error(msg string, fields map[string]any) {
	slog.Error(msg, args(fields)...)
}

func Fatal(msg string, fields map[string]any) {
	slog.Error(msg, args(fields)...)
	os.Exit(1)
}

func args(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
