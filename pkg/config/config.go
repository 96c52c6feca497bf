// Package config loads the TOML settings shared by the CLI and the viewer.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/0x0FACED/go-trapmap/pkg/generator"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Log    Log    `toml:"log"`
	Scene  Scene  `toml:"scene"`
	Server Server `toml:"server"`
}

type Log struct {
	Level string `toml:"level"`
}

// Scene selects the subdivision a command works on. WKTFile, when set, wins
// over the generator.
type Scene struct {
	Generator string `toml:"generator"`
	Size      int    `toml:"size"`
	Seed      int64  `toml:"seed"`
	WKTFile   string `toml:"wkt_file"`
}

type Server struct {
	Addr string `toml:"addr"`
	// MaxSize caps the scene size a browser may request.
	MaxSize int `toml:"max_size"`
}

func Default() Config {
	return Config{
		Log:    Log{Level: "info"},
		Scene:  Scene{Generator: "random", Size: 12, Seed: 1},
		Server: Server{Addr: ":8080", MaxSize: 2000},
	}
}

// Load decodes path over Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}

	if c.Scene.WKTFile == "" {
		known := false
		for _, name := range generator.Names {
			if name == c.Scene.Generator {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: generator %q, want one of %v", ErrInvalid, c.Scene.Generator, generator.Names)
		}
	}
	if c.Scene.Size < 1 {
		return fmt.Errorf("%w: scene size %d", ErrInvalid, c.Scene.Size)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: empty server addr", ErrInvalid)
	}
	if c.Server.MaxSize < 1 {
		return fmt.Errorf("%w: server max_size %d", ErrInvalid, c.Server.MaxSize)
	}
	return nil
}
