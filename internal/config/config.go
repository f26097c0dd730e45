// Package config loads the engine's startup configuration from a YAML
// file, with environment variables (optionally sourced from a .env
// file) overriding individual fields for containerized deployment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is every knob the process needs at startup.
type Config struct {
	ListenAddr      string            `yaml:"listen_addr"`
	AdminAddr       string            `yaml:"admin_addr"`
	TLSCertFile     string            `yaml:"tls_cert_file"`
	TLSKeyFile      string            `yaml:"tls_key_file"`
	LogLevel        string            `yaml:"log_level"`
	QueueCapacity   int               `yaml:"queue_capacity"`
	// OutboundDepth is loaded and validated only; the transport sizes
	// each session's queues with its own fixed outboundQueueDepth (256).
	OutboundDepth   int               `yaml:"outbound_queue_depth"`
	InitialUsers    map[string]string `yaml:"initial_users"`
}

func defaults() Config {
	return Config{
		ListenAddr:    ":8443",
		AdminAddr:     ":8090",
		TLSCertFile:   "./certs/server.crt",
		TLSKeyFile:    "./certs/server.key",
		LogLevel:      "info",
		QueueCapacity: 4096,
		OutboundDepth: 256,
		InitialUsers:  map[string]string{},
	}
}

// Load reads path as YAML over the defaults, then applies environment
// overrides (see applyEnv). envPath, if non-empty, is loaded with
// godotenv before the environment is read; a missing .env file is not
// an error.
func Load(path, envPath string) (Config, error) {
	cfg := defaults()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets MATCHCORE_* environment variables override the file,
// the idiomatic escape hatch for container orchestrators that inject
// secrets and addresses at deploy time rather than bake them into YAML.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MATCHCORE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MATCHCORE_ADMIN_ADDR"); v != "" {
		cfg.AdminAddr = v
	}
	if v := os.Getenv("MATCHCORE_TLS_CERT_FILE"); v != "" {
		cfg.TLSCertFile = v
	}
	if v := os.Getenv("MATCHCORE_TLS_KEY_FILE"); v != "" {
		cfg.TLSKeyFile = v
	}
	if v := os.Getenv("MATCHCORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MATCHCORE_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QueueCapacity = n
		}
	}
}

func (c Config) validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.AdminAddr == "" {
		return errors.New("admin_addr must not be empty")
	}
	if c.QueueCapacity <= 0 {
		return errors.New("queue_capacity must be positive")
	}
	if c.OutboundDepth <= 0 {
		return errors.New("outbound_queue_depth must be positive")
	}
	return nil
}
