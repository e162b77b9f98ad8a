package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls the HTTP service.
type Config struct {
	// ListenAddr is the host:port the server binds to.
	ListenAddr string `yaml:"listen_addr"`

	// MaxProgramBytes rejects request bodies whose program exceeds this
	// size. Zero disables the check.
	MaxProgramBytes int `yaml:"max_program_bytes"`

	// EvalTimeout bounds a single program evaluation.
	EvalTimeout time.Duration `yaml:"eval_timeout"`
}

// DefaultConfig returns the built-in defaults used when no config file is
// given.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      ":8080",
		MaxProgramBytes: 1 << 20,
		EvalTimeout:     10 * time.Second,
	}
}

// LoadConfig reads a YAML config file, filling unset fields from the
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.EvalTimeout <= 0 {
		cfg.EvalTimeout = DefaultConfig().EvalTimeout
	}
	return cfg, nil
}
