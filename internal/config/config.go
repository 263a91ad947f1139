package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kayz/kbmcp/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL   = "https://your-knowledge-api.company.com/v1"
	DefaultUserAgent = "enterprise-assistant/1.0"
	DefaultTimeout   = 30 * time.Second
	DefaultPort      = 8686

	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	Transport    string             `yaml:"transport"` // "stdio" or "sse"
	Port         int                `yaml:"port"`
	KnowledgeAPI KnowledgeAPIConfig `yaml:"knowledge_api"`
	Security     SecurityConfig     `yaml:"security"`
	Logging      logger.Config      `yaml:"logging"`
}

// KnowledgeAPIConfig describes the upstream knowledge service.
type KnowledgeAPIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type SecurityConfig struct {
	// BlockPrivateHosts rejects base URLs that resolve to loopback or
	// private ranges. Off by default since knowledge APIs are usually internal.
	BlockPrivateHosts bool `yaml:"block_private_hosts"`
}

func DefaultConfig() *Config {
	return &Config{
		Transport: TransportStdio,
		Port:      DefaultPort,
		KnowledgeAPI: KnowledgeAPIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		Logging: logger.DefaultConfig(),
	}
}

func ConfigPath() string {
	exeDir := getExecutableDir()
	return filepath.Join(exeDir, ".kbmcp.yaml")
}

// Load reads the config file next to the executable. A missing file yields
// the defaults.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads a YAML config file over the defaults. A missing file is
// not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("KB_API_BASE"); ok && v != "" {
		c.KnowledgeAPI.BaseURL = v
	}
	if v, ok := lookup("KB_USER_AGENT"); ok && v != "" {
		c.KnowledgeAPI.UserAgent = v
	}
	if v, ok := lookup("KB_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("KB_TIMEOUT: %w", err)
		}
		c.KnowledgeAPI.Timeout = d
	}
	if v, ok := lookup("KBMCP_TRANSPORT"); ok && v != "" {
		c.Transport = v
	}
	if v, ok := lookup("KBMCP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KBMCP_PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("KBMCP_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport != TransportStdio && c.Transport != TransportSSE {
		return fmt.Errorf("unsupported transport %q: must be %q or %q", c.Transport, TransportStdio, TransportSSE)
	}
	if c.Transport == TransportSSE && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if strings.TrimSpace(c.KnowledgeAPI.BaseURL) == "" {
		return fmt.Errorf("knowledge_api.base_url is required")
	}
	if c.KnowledgeAPI.Timeout <= 0 {
		return fmt.Errorf("knowledge_api.timeout must be positive, got %s", c.KnowledgeAPI.Timeout)
	}
	if c.KnowledgeAPI.UserAgent == "" {
		c.KnowledgeAPI.UserAgent = DefaultUserAgent
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
