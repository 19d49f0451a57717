package logger

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
)

func TestOptions(t *testing.T) {
	buf := &bytes.Buffer{}

	tests := []struct {
		name  string
		start config
		opt   Option
		check func(c *config) bool
	}{
		{"level", config{}, WithLevel(slog.LevelDebug), func(c *config) bool { return c.level == slog.LevelDebug }},
		{"json", config{}, WithJSON(), func(c *config) bool { return c.json }},
		{"text", config{json: true}, WithText(), func(c *config) bool { return !c.json }},
		{"source", config{}, WithSource(), func(c *config) bool { return c.addSource }},
		{"writer", config{}, WithWriter(buf), func(c *config) bool { return c.writer == buf }},
		{"nil writer", config{writer: buf}, WithWriter(nil), func(c *config) bool { return c.writer == io.Discard }},
		{"color", config{}, WithColor(), func(c *config) bool { return c.wantColor }},
		{"default replace", config{}, WithDefaultReplaceAttr(), func(c *config) bool { return c.replaceAttr != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.start
			tt.opt(&cfg)
			if !tt.check(&cfg) {
				t.Errorf("option %s not applied: %+v", tt.name, cfg)
			}
		})
	}
}

func TestWithLevelNames(t *testing.T) {
	cfg := &config{}
	WithLevelNames(map[slog.Level]string{slog.LevelDebug: "DBG"})(cfg)

	if cfg.replaceAttr == nil {
		t.Fatal("WithLevelNames: replaceAttr should be set")
	}

	attr := cfg.replaceAttr(nil, slog.Any(slog.LevelKey, slog.LevelDebug))
	if attr.Key != slog.LevelKey || attr.Value.String() != "DBG" {
		t.Errorf("WithLevelNames: got %s=%q, want level=DBG", attr.Key, attr.Value.String())
	}

	attr = cfg.replaceAttr(nil, slog.Any(slog.LevelKey, levelCritical))
	if attr.Value.String() != "CRITICAL" {
		t.Errorf("unmapped levels keep their name, got %q", attr.Value.String())
	}
}

func TestWithDefaultReplaceAttr_KeepsDroppedAttr(t *testing.T) {
	cfg := &config{}
	WithReplaceAttr(func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "secret" {
			return slog.Attr{}
		}
		return a
	})(cfg)
	WithDefaultReplaceAttr()(cfg)

	if got := cfg.replaceAttr(nil, slog.String("secret", "x")); !got.Equal(slog.Attr{}) {
		t.Errorf("dropped attr resurrected: %v", got)
	}
	if got := cfg.replaceAttr(nil, slog.Any(slog.LevelKey, levelTrace)); got.Value.String() != "TRACE" {
		t.Errorf("level = %q, want TRACE", got.Value.String())
	}
}
