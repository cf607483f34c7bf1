package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "oscsync"
	configFile = "config.yaml"
)

// Config is the service configuration.
type Config struct {
	// InstanceName is the mDNS instance name both services are advertised
	// under.
	InstanceName string `yaml:"instance_name"`

	// BindAddress is the address the query server binds ("" = all
	// interfaces). The HTTP port itself is ephemeral.
	BindAddress string `yaml:"bind_address,omitempty"`

	// OSCPort is the UDP port of the OSC transport endpoint, announced in
	// the _osc._udp advertisement and the HOST_INFO document. The OSC
	// transport itself is an external collaborator.
	OSCPort int `yaml:"osc_port"`

	// OSCIP is the OSC endpoint address reported in HOST_INFO.
	OSCIP string `yaml:"osc_ip,omitempty"`

	// PeerPrefix gates which discovered instance names trigger
	// synchronization.
	PeerPrefix string `yaml:"peer_prefix,omitempty"`

	// LogLevel controls zap verbosity ("" = silent, or the
	// OSCSYNC_LOG_LEVEL environment variable).
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		InstanceName: "OSCSync",
		BindAddress:  "127.0.0.1",
		OSCPort:      9000,
		OSCIP:        "127.0.0.1",
		PeerPrefix:   "VRChat-Client-",
	}
}

// DefaultPath returns the configuration file path under the user config
// directory (e.g. ~/.config/oscsync/config.yaml).
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appName, configFile), nil
}

// Load reads the configuration from path. An empty path means the default
// location. A missing file is not an error: defaults are returned so the
// service runs unconfigured.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run
// with.
func (c *Config) Validate() error {
	if c.InstanceName == "" {
		return fmt.Errorf("instance_name must not be empty")
	}
	if c.OSCPort <= 0 || c.OSCPort > 65535 {
		return fmt.Errorf("osc_port %d out of range", c.OSCPort)
	}
	if c.PeerPrefix == "" {
		return fmt.Errorf("peer_prefix must not be empty")
	}
	return nil
}

// Save writes the configuration to path, creating the directory as
// needed. An empty path means the default location.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
