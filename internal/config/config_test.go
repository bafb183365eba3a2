package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(configFile, []byte("log:\n  level: debug\ngameIdleTimeout: 60\n"), 0600))

	os.Setenv("GABO_CONFIG_FILE", configFile)
	defer os.Unsetenv("GABO_CONFIG_FILE")

	assert.NoError(t, Load())
	assert.Equal(t, "debug", Instance().Log.Level)
	assert.Equal(t, 60, Instance().GameIdleTimeout)
}

func TestLoad_missingFile(t *testing.T) {
	os.Setenv("GABO_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	defer os.Unsetenv("GABO_CONFIG_FILE")

	assert.NoError(t, Load())
	assert.Equal(t, "info", Instance().Log.Level)
	assert.Equal(t, 300, Instance().GameIdleTimeout)
}

func TestLoad_envOverride(t *testing.T) {
	os.Setenv("GABO_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	os.Setenv("GABO_JWT_SIGNING_KEY", "super-secret")
	defer func() {
		os.Unsetenv("GABO_CONFIG_FILE")
		os.Unsetenv("GABO_JWT_SIGNING_KEY")
	}()

	assert.NoError(t, Load())
	assert.Equal(t, "super-secret", Instance().JWT.SigningKey)
}
