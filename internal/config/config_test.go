package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromPathMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, DefaultBaseURL, cfg.KnowledgeAPI.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.KnowledgeAPI.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.KnowledgeAPI.Timeout)
}

func TestLoadFromPathReadsKnowledgeSection(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, ".kbmcp.yaml")
	content := `transport: sse
port: 9000
knowledge_api:
  base_url: "https://kb.example.com/api"
  timeout: 5s
security:
  block_private_hosts: true
logging:
  level: debug
  format: json
  file:
    filename: /tmp/kbmcp.log
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	cfg, err := LoadFromPath(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https://kb.example.com/api", cfg.KnowledgeAPI.BaseURL)
	assert.Equal(t, DefaultUserAgent, cfg.KnowledgeAPI.UserAgent, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.KnowledgeAPI.Timeout)
	assert.True(t, cfg.Security.BlockPrivateHosts)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/kbmcp.log", cfg.Logging.File.Filename)
}

func TestLoadFromPathRejectsBadYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("port: [1, 2"), 0644))

	_, err := LoadFromPath(cfgPath)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"KB_API_BASE":     "http://localhost:9999/v2",
		"KB_USER_AGENT":   "tester/0.1",
		"KB_TIMEOUT":      "1500ms",
		"KBMCP_TRANSPORT": "sse",
		"KBMCP_PORT":      "7001",
		"KBMCP_LOG_LEVEL": "warn",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, "http://localhost:9999/v2", cfg.KnowledgeAPI.BaseURL)
	assert.Equal(t, "tester/0.1", cfg.KnowledgeAPI.UserAgent)
	assert.Equal(t, 1500*time.Millisecond, cfg.KnowledgeAPI.Timeout)
	assert.Equal(t, "sse", cfg.Transport)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "KB_TIMEOUT" {
			return "soon", true
		}
		return "", false
	})
	assert.Error(t, err)

	cfg = DefaultConfig()
	err = cfg.ApplyEnv(func(k string) (string, bool) {
		if k == "KBMCP_PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "transport is normalized", mutate: func(c *Config) { c.Transport = " STDIO " }},
		{name: "unknown transport", mutate: func(c *Config) { c.Transport = "grpc" }, wantErr: true},
		{name: "sse needs a port", mutate: func(c *Config) { c.Transport = TransportSSE; c.Port = 0 }, wantErr: true},
		{name: "empty base url", mutate: func(c *Config) { c.KnowledgeAPI.BaseURL = " " }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.KnowledgeAPI.Timeout = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "chatty" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFillsEmptyUserAgent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KnowledgeAPI.UserAgent = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultUserAgent, cfg.KnowledgeAPI.UserAgent)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".kbmcp.yaml")
	cfg := DefaultConfig()
	cfg.KnowledgeAPI.BaseURL = "https://kb.internal/v1"
	cfg.KnowledgeAPI.Timeout = 12 * time.Second

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
