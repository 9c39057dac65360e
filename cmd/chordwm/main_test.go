package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version+"\n", out.String())
}

func TestLoadConfig_FlagsOverrideFileOnlyWhenSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display: \":1\"\nlog_level: debug\nverify_grabs: true\n"), 0o644))

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--log-level", "warn"}))

	opts := &options{}
	opts.configPath, _ = cmd.Flags().GetString("config")
	opts.logLevel, _ = cmd.Flags().GetString("log-level")

	cfg, err := loadConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, ":1", cfg.Display)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.VerifyGrabs)
}

func TestLoadConfig_InvalidFlagValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "loud"}))

	_, err := loadConfig(cmd, &options{configPath: path, logLevel: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}

func TestLoadConfig_StartsWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := loadConfig(cmd, &options{})
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Display)
	assert.Equal(t, "Control", cfg.Modifier)
}

func TestLoadConfig_ExplicitPathErrorsAreFatal(t *testing.T) {
	dir := t.TempDir()

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	// A directory cannot be read as a config file.
	_, err := loadConfig(cmd, &options{configPath: dir})
	require.Error(t, err)
}
