package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.70, cfg.Analysis.MinConfidence)
	assert.True(t, cfg.Analysis.EnablePivots)
	assert.Equal(t, 100, cfg.Analysis.MaxIndicatorsPerCorrelation)
	assert.Empty(t, cfg.Analysis.IgnoredRootDomains)
	assert.Equal(t, 8, cfg.Analysis.MaxConcurrentSources)

	assert.Equal(t, 8096, cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.NATS.Enabled)
	assert.False(t, cfg.OpenSearch.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile(t *testing.T) {
	content := `
sources:
  - name: alpha
    type: feed
    url: https://feeds.example/alpha
    api_key: sekrit
    timeout: 10s
    enabled: true
  - name: offline
    type: file
    path: /var/lib/threatmesh/offline.json
    enabled: true

analysis:
  min_confidence: 0.85
  enable_pivots: false
  ignored_root_domains:
    - cloudfront.net
    - herokuapp.com

server:
  port: 9000
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "alpha", cfg.Sources[0].Name)
	assert.Equal(t, "feed", cfg.Sources[0].Type)
	assert.Equal(t, 10*time.Second, cfg.Sources[0].Timeout)
	assert.True(t, cfg.Sources[0].Enabled)
	assert.Equal(t, "/var/lib/threatmesh/offline.json", cfg.Sources[1].Path)

	assert.Equal(t, 0.85, cfg.Analysis.MinConfidence)
	assert.False(t, cfg.Analysis.EnablePivots)
	assert.Equal(t, []string{"cloudfront.net", "herokuapp.com"}, cfg.Analysis.IgnoredRootDomains)
	assert.Equal(t, 100, cfg.Analysis.MaxIndicatorsPerCorrelation, "unset keys keep their defaults")

	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDatabaseConnString(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "threatmesh",
		Password: "pw",
		Database: "threatmesh",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"postgres://threatmesh:pw@db.internal:5432/threatmesh?sslmode=disable",
		d.ConnString(),
	)
}
