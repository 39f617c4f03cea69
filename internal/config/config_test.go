package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want letter", cfg.Page.Size)
	}
	if cfg.Page.Orientation != "portrait" {
		t.Errorf("Page.Orientation = %q, want portrait", cfg.Page.Orientation)
	}
	if cfg.Render.Strategy != "polling" {
		t.Errorf("Render.Strategy = %q, want polling", cfg.Render.Strategy)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads valid file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
output:
  defaultDir: /srv/pdfs
page:
  size: a4
  orientation: landscape
  margin: 36
render:
  timeout: 45s
  strategy: signal
  readySignal: __appReady
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Output.DefaultDir != "/srv/pdfs" {
			t.Errorf("Output.DefaultDir = %q", cfg.Output.DefaultDir)
		}
		if cfg.Page.Size != "a4" || cfg.Page.Orientation != "landscape" || cfg.Page.Margin != 36 {
			t.Errorf("Page = %+v", cfg.Page)
		}
		if cfg.Render.Strategy != "signal" || cfg.Render.ReadySignal != "__appReady" {
			t.Errorf("Render = %+v", cfg.Render)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if _, err := LoadConfig(missing); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "page:\n  sizes: a4\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			content string
		}{
			{"bad size", "page:\n  size: b5\n"},
			{"bad orientation", "page:\n  orientation: sideways\n"},
			{"negative margin", "page:\n  margin: -3\n"},
			{"bad timeout", "render:\n  timeout: soon\n"},
			{"bad strategy", "render:\n  strategy: eager\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				path := writeConfig(t, tt.content)
				if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidField) {
					t.Errorf("error = %v, want ErrInvalidField", err)
				}
			})
		}
	})
}

func TestConfig_Timeout(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if got := cfg.Timeout(30 * time.Second); got != 30*time.Second {
		t.Errorf("Timeout() = %v, want fallback", got)
	}

	cfg.Render.Timeout = "2m"
	if got := cfg.Timeout(30 * time.Second); got != 2*time.Minute {
		t.Errorf("Timeout() = %v, want 2m", got)
	}
}
