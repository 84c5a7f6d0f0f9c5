package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndrewLester/ntpclient/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"NTP_SERVER", "NTP_PORT", "NTP_SAMPLES", "NTP_TIMEOUT"} {
		t.Setenv(name, "")
	}
}

func loadWithFlags(t *testing.T, path string, args ...string) (config.Config, *cliFlags) {
	t.Helper()
	flags := newFlags("ntpclient")
	require.NoError(t, flags.parse(args))

	conf, err := config.Load(path, "")
	require.NoError(t, err)
	flags.apply(&conf)
	return conf, flags
}

func TestFlagOverridesInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NTP_SAMPLES", "20")

	conf, _ := loadWithFlags(t, "", "-n", "3")
	assert.Equal(t, 3, conf.Samples)
	assert.NoError(t, conf.Validate())
}

func TestFlagOverridesInvalidFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "ntpclient.yaml")
	require.NoError(t, os.WriteFile(path, []byte("samples: 0\nttl: 999\n"), 0o644))

	conf, _ := loadWithFlags(t, path, "--samples=2", "--ttl", "64")
	assert.Equal(t, 2, conf.Samples)
	assert.Equal(t, 64, conf.TTL)
	assert.NoError(t, conf.Validate())
}

func TestInvalidEnvWithoutFlagFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("NTP_SAMPLES", "20")

	conf, _ := loadWithFlags(t, "")
	assert.ErrorIs(t, conf.Validate(), config.ErrConfig)
}

func TestFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NTP_SERVER", "time.nist.gov")
	t.Setenv("NTP_TIMEOUT", "9s")

	conf, _ := loadWithFlags(t, "", "-s", "time.google.com", "--timeout", "1s", "--utc", "--compare")
	assert.Equal(t, "time.google.com", conf.Server)
	assert.Equal(t, time.Second, conf.Timeout)
	assert.False(t, conf.LocalTime)
	assert.True(t, conf.Compare)
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("NTP_SERVER", "time.nist.gov")
	t.Setenv("NTP_SAMPLES", "5")

	conf, _ := loadWithFlags(t, "")
	assert.Equal(t, "time.nist.gov", conf.Server)
	assert.Equal(t, 5, conf.Samples)
	assert.True(t, conf.LocalTime)
}

func TestPositionalServerWins(t *testing.T) {
	clearEnv(t)

	conf, _ := loadWithFlags(t, "", "-s", "time.nist.gov", "time.cloudflare.com")
	assert.Equal(t, "time.cloudflare.com", conf.Server)
}

func TestLoggingFlagsDisableTUI(t *testing.T) {
	tests := []struct {
		args  []string
		noTUI bool
	}{
		{nil, false},
		{[]string{"--no-tui"}, true},
		{[]string{"-v"}, true},
		{[]string{"-d"}, true},
		{[]string{"--debug", "--verbose"}, true},
	}

	for _, tt := range tests {
		flags := newFlags("ntpclient")
		require.NoError(t, flags.parse(tt.args))
		assert.Equal(t, tt.noTUI, flags.noTUI, "%v", tt.args)
	}
}
