// Package logging configures the process wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ParseLevel maps debug, info, warn and error to a slog level. An empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewHandler returns a tint handler writing to w. Colors are only used when
// color is true.
func NewHandler(w io.Writer, level slog.Leveler, color bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	})
}

// Setup installs a stderr logger as the slog default and returns its level so
// callers can change it later
func Setup(level string) (*slog.LevelVar, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	ll := &slog.LevelVar{}
	ll.Set(lvl)

	color := isatty.IsTerminal(os.Stderr.Fd())
	slog.SetDefault(slog.New(NewHandler(colorable.NewColorable(os.Stderr), ll, color)))

	return ll, nil
}
