package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
app:
  name: linkhub
  mode: development
server:
  port: 8080
link:
  code_length: 8
  cache_ttl_minutes: 30
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "linkhub", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Link.CodeLength)
	assert.Equal(t, 30, cfg.Link.CacheTTLMinutes)
	// 未配置的项回落到默认值
	assert.Equal(t, 1, cfg.Link.ExpiryGraceMonths)
	assert.Equal(t, 5, cfg.Link.CreateMaxRetries)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("no/such/config.yaml")
	assert.Error(t, err)
}
