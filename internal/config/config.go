// Package config loads depotview daemon settings from YAML with flag overrides
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds listener settings
type ServerConfig struct {
	Port          int  `yaml:"port"`
	MetricsPort   int  `yaml:"metrics_port"`
	// Reflection lists services for grpcurl. The service descriptor is
	// hand-built with no registered proto file, so describe fails.
	Reflection    bool `yaml:"reflection"`
	MaxRecvMsgMiB int  `yaml:"max_recv_msg_mib"`
}

// LogConfig mirrors logger.Config for the file format
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	Caller bool   `yaml:"caller"`
}

// Config is the full daemon configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// Default returns the settings used when no file is given
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:          50061,
			MetricsPort:   9091,
			Reflection:    false,
			MaxRecvMsgMiB: 16,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(bytes.NewReader(data), &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg, rejecting unknown keys. Keys absent
// from the document keep their current values.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return cfg.Validate()
}

// Validate checks port ranges and sizes
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MetricsPort < 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("server.metrics_port %d out of range", c.Server.MetricsPort)
	}
	if c.Server.MetricsPort != 0 && c.Server.MetricsPort == c.Server.Port {
		return fmt.Errorf("server.metrics_port must differ from server.port")
	}
	if c.Server.MaxRecvMsgMiB <= 0 {
		return fmt.Errorf("server.max_recv_msg_mib must be positive")
	}
	return nil
}

// Marshal renders cfg as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Flags are command-line overrides for a Config
type Flags struct {
	fs          *flag.FlagSet
	configPath  string
	port        int
	metricsPort int
	reflection  bool
	logLevel    string
	prettyLog   bool
}

// RegisterFlags defines the override flags on fs
func RegisterFlags(fs *flag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}
	fs.StringVar(&f.configPath, "config", "", "Path to YAML config file")
	fs.IntVar(&f.port, "port", d.Server.Port, "gRPC server port")
	fs.IntVar(&f.metricsPort, "metrics-port", d.Server.MetricsPort, "HTTP metrics/health port (0 disables)")
	fs.BoolVar(&f.reflection, "reflection", d.Server.Reflection, "Register the gRPC reflection service (lists services; describe is unavailable)")
	fs.StringVar(&f.logLevel, "log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	fs.BoolVar(&f.prettyLog, "pretty-log", d.Log.Pretty, "Enable pretty console logging")
	return f
}

// ConfigPath returns the -config value
func (f *Flags) ConfigPath() string {
	return f.configPath
}

// Apply copies the flags that were set on the command line into cfg
func (f *Flags) Apply(cfg *Config) error {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Server.Port = f.port
		case "metrics-port":
			cfg.Server.MetricsPort = f.metricsPort
		case "reflection":
			cfg.Server.Reflection = f.reflection
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "pretty-log":
			cfg.Log.Pretty = f.prettyLog
		}
	})
	return cfg.Validate()
}

// Resolve loads the -config file and applies flag overrides
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	return cfg, f.Apply(&cfg)
}
