package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	origConfig := Config
	t.Cleanup(func() {
		Config = origConfig
		_ = os.Chdir(orig)
	})
}

func TestLoadAppConfig_RepositorySample(t *testing.T) {
	chdir(t, "..")
	require.NoError(t, LoadAppConfig())
	assert.Equal(t, DefaultPort, Config.Server.Port)
	assert.Equal(t, "none", Config.Cache.Policy)
	assert.Equal(t, 8000, Config.Simulator.MinStepMS)
	assert.Equal(t, "IR", Config.Tracking.AgencyID)
}

func TestLoadAppConfig_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, LoadAppConfig())
	assert.Equal(t, Default(), Config)
}

func TestLoadAppConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("invalid: yaml: content: [[["), 0o644))
	chdir(t, dir)
	assert.Error(t, LoadAppConfig())
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("server:\n  port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5000, cfg.Providers.TimeoutMS)
	assert.Equal(t, 3000, cfg.Simulator.InitialDelayMS)
	assert.Equal(t, 12000, cfg.Simulator.MaxStepMS)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
}

func TestLoadFromBytes_Validation(t *testing.T) {
	cases := map[string]string{
		"port out of range": "server:\n  port: 70000\n",
		"bad log level":     "log:\n  level: loud\n",
		"step range":        "simulator:\n  minStepMS: 5000\n  maxStepMS: 1000\n",
		"unknown policy":    "cache:\n  policy: lru\n",
		"ttl without value": "cache:\n  policy: ttl\n",
		"negative latency":  "providers:\n  latencyMS:\n    seat: -1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(doc))
			assert.Error(t, err)
		})
	}

	cfg, err := LoadFromBytes([]byte("cache:\n  policy: ttl\n  ttlSeconds: 60\n"))
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
}

func TestLoadFromBytes_EnvOverrides(t *testing.T) {
	t.Setenv("YATRIQ_PORT", "18080")
	t.Setenv("YATRIQ_LOG_LEVEL", "debug")
	t.Setenv("YATRIQ_BOOKINGS_DB", "/tmp/bookings.db")
	t.Setenv("YATRIQ_TRACKING_FEED", "testdata/vp.pb")

	cfg, err := LoadFromBytes([]byte("server:\n  port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, 18080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/bookings.db", cfg.Bookings.SQLitePath)
	assert.Equal(t, "testdata/vp.pb", cfg.Tracking.FeedURL)
}
