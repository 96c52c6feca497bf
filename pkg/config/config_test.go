package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trapmap.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[log]
level = "debug"

[scene]
generator = "horizontal"
size = 30
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Scene.Generator != "horizontal" || cfg.Scene.Size != 30 {
		t.Errorf("values not applied: %+v", cfg)
	}
	if cfg.Scene.Seed != 1 || cfg.Server.Addr != ":8080" || cfg.Server.MaxSize != 2000 {
		t.Errorf("unset keys should keep their defaults: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"bad syntax", "[log\nlevel = 1", false},
		{"unknown level", "[log]\nlevel = \"loud\"", true},
		{"unknown generator", "[scene]\ngenerator = \"spiral\"", true},
		{"zero size", "[scene]\nsize = 0", true},
		{"empty addr", "[server]\naddr = \"\"", true},
		{"zero max size", "[server]\nmax_size = 0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("err = %v, ErrInvalid expected: %v", err, tt.invalid)
			}
		})
	}
}

func TestWKTFileSkipsGeneratorCheck(t *testing.T) {
	cfg := Default()
	cfg.Scene.Generator = ""
	cfg.Scene.WKTFile = "scene.wkt"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
