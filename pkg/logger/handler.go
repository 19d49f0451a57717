package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// textHandler writes "LEVEL message key="value" ..." lines. Attributes added
// under a group are printed with a dotted prefix.
type textHandler struct {
	mu          *sync.Mutex
	writer      io.Writer
	attrs       []slog.Attr
	groups      []string
	isColored   bool
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
	level       slog.Level
}

func newTextHandler(
	writer io.Writer,
	isColored bool,
	replaceAttr func(groups []string, a slog.Attr) slog.Attr,
	level slog.Level,
) slog.Handler {
	return &textHandler{
		mu:          &sync.Mutex{},
		writer:      writer,
		isColored:   isColored,
		replaceAttr: replaceAttr,
		level:       level,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	levelStr := getLevelName(r.Level)

	if h.replaceAttr != nil {
		levelAttr := h.replaceAttr(nil, slog.Any(slog.LevelKey, r.Level))
		levelStr = levelAttr.Value.String()
	}

	if h.isColored {
		levelStr = colorize(levelStr, r.Level)
	}

	var b strings.Builder
	b.WriteString(levelStr)
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}

	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		h.writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *textHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	if h.replaceAttr != nil {
		a = h.replaceAttr(h.groups, a)
	}
	if a.Key == "" || a.Equal(slog.Attr{}) {
		return
	}
	_, _ = fmt.Fprintf(b, " %s=%q", a.Key, a.Value.String())
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return c
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := h.clone()
	c.groups = append(c.groups, name)
	return c
}

func (h *textHandler) clone() *textHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)
	return &c
}

func colorize(levelStr string, level slog.Level) string {
	const (
		reset  = "\033[0m"
		blue   = "\033[34m"
		cyan   = "\033[36m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
		white  = "\033[37m"
		redBg  = "\033[41m"
	)

	switch {
	case level <= levelTrace:
		return cyan + levelStr + reset
	case level < slog.LevelInfo:
		return blue + levelStr + reset
	case level < slog.LevelWarn:
		return green + levelStr + reset
	case level < slog.LevelError:
		return yellow + levelStr + reset
	case level < levelCritical:
		return red + levelStr + reset
	default:
		return redBg + white + levelStr + reset
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
