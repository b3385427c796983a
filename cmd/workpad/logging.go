package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// newLogger returns a tint handler on w, colored only on a terminal.
//
// Empty attributes are dropped to keep lines short. Timestamps are dropped
// under systemd since the journal adds its own.
func newLogger(w *os.File, level slog.Leveler) *slog.Logger {
	journald := os.Getenv("JOURNAL_STREAM") != ""
	var out io.Writer = w
	if isatty.IsTerminal(w.Fd()) {
		out = colorable.NewColorable(w)
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(w.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && journald {
				return slog.Attr{}
			}
			if isEmpty(a.Value) {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func isEmpty(v slog.Value) bool {
	switch v.Kind() {
	case slog.KindString:
		return v.String() == ""
	case slog.KindDuration:
		return v.Duration() == 0
	case slog.KindTime:
		return v.Time().IsZero()
	case slog.KindAny:
		return v.Any() == nil
	}
	return false
}
