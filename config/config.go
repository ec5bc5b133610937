// Package config manages the netninja configuration. It loads settings from
// YAML, applies defaults for anything left unset and validates the result.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Commands struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"commands"`

	Security struct {
		JournalUnit         string `yaml:"journalUnit"`
		JournalLines        int    `yaml:"journalLines"`
		ConnectionThreshold int    `yaml:"connectionThreshold"`
	} `yaml:"security"`

	Monitor struct {
		RefreshInterval time.Duration `yaml:"refreshInterval"`
		TrafficInterval time.Duration `yaml:"trafficInterval"`
		ScriptPath      string        `yaml:"scriptPath"`
	} `yaml:"monitor"`

	Peers struct {
		MDNS        bool          `yaml:"mdns"`
		MDNSTimeout time.Duration `yaml:"mdnsTimeout"`
	} `yaml:"peers"`

	Web struct {
		Listen            string        `yaml:"listen"`
		AuthToken         string        `yaml:"authToken"`
		BroadcastInterval time.Duration `yaml:"broadcastInterval"`
		AllowedOrigins    []string      `yaml:"allowedOrigins"`
	} `yaml:"web"`

	Publish struct {
		Endpoint string `yaml:"endpoint"`
		Token    string `yaml:"token"`
	} `yaml:"publish"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	path string
	mu   sync.RWMutex
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the process-wide configuration instance
func GetConfig() *Config {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New returns a configuration populated with defaults
func New() *Config {
	c := &Config{}
	setDefaults(c)
	return c
}

// LoadConfig loads configuration from a YAML file over the defaults
func (c *Config) LoadConfig(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("configuration file does not exist: %s", path)
		}
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse configuration file: %w", err)
	}

	setDefaults(c)

	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration to path, creating parent directories
func (c *Config) SaveConfig(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create configuration directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}

// Path returns the file the configuration was loaded from, if any
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validate()
}

func (c *Config) validate() error {
	if c.Commands.Timeout <= 0 {
		return errors.New("commands.timeout must be positive")
	}
	if c.Security.JournalLines <= 0 {
		return errors.New("security.journalLines must be positive")
	}
	if c.Security.ConnectionThreshold <= 0 {
		return errors.New("security.connectionThreshold must be positive")
	}
	if c.Monitor.RefreshInterval < time.Second {
		return errors.New("monitor.refreshInterval must be at least 1s")
	}
	if c.Web.BroadcastInterval < time.Second {
		return errors.New("web.broadcastInterval must be at least 1s")
	}
	if c.Publish.Endpoint != "" {
		u, err := url.Parse(c.Publish.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("publish.endpoint is not an absolute URL: %q", c.Publish.Endpoint)
		}
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// setDefaults fills every unset field
func setDefaults(c *Config) {
	if c.Commands.Timeout == 0 {
		c.Commands.Timeout = 10 * time.Second
	}

	if c.Security.JournalUnit == "" {
		c.Security.JournalUnit = "ssh"
	}
	if c.Security.JournalLines == 0 {
		c.Security.JournalLines = 100
	}
	if c.Security.ConnectionThreshold == 0 {
		c.Security.ConnectionThreshold = 50
	}

	if c.Monitor.RefreshInterval == 0 {
		c.Monitor.RefreshInterval = 5 * time.Second
	}
	if c.Monitor.TrafficInterval == 0 {
		c.Monitor.TrafficInterval = 2 * time.Second
	}
	if c.Monitor.ScriptPath == "" {
		c.Monitor.ScriptPath = "/tmp/netninja-monitor.sh"
	}

	if c.Peers.MDNSTimeout == 0 {
		c.Peers.MDNSTimeout = 2 * time.Second
	}

	if c.Web.Listen == "" {
		c.Web.Listen = "127.0.0.1:7878"
	}
	if c.Web.BroadcastInterval == 0 {
		c.Web.BroadcastInterval = 10 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
