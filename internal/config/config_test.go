package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, name := range []string{"NTP_SERVER", "NTP_PORT", "NTP_SAMPLES", "NTP_TIMEOUT"} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	config, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default(), config)
	assert.Equal(t, "pool.ntp.org", config.Server)
	assert.Equal(t, 123, config.Port)
	assert.Equal(t, 5*time.Second, config.Timeout)
	assert.Equal(t, 1, config.Samples)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ntpclient.yaml", `
server: time.google.com
port: 1123
timeout: 3s
samples: 4
ttl: 64
local_time: false
compare: true
`)

	config, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Server:    "time.google.com",
		Port:      1123,
		Timeout:   3 * time.Second,
		Samples:   4,
		TTL:       64,
		LocalTime: false,
		Compare:   true,
	}, config)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ntpclient.yaml", "server: time.nist.gov\n")

	config, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "time.nist.gov", config.Server)
	assert.Equal(t, 123, config.Port)
	assert.Equal(t, query.DefaultTimeout, config.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ntpclient.yaml", "server: [unterminated\n")

	_, err := Load(path, "")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "ntpclient.yaml", "server: time.nist.gov\nsamples: 2\n")
	t.Setenv("NTP_SERVER", "time.cloudflare.com")
	t.Setenv("NTP_SAMPLES", "6")
	t.Setenv("NTP_TIMEOUT", "750ms")

	config, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "time.cloudflare.com", config.Server)
	assert.Equal(t, 6, config.Samples)
	assert.Equal(t, 750*time.Millisecond, config.Timeout)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("NTP_PORT")
	t.Cleanup(func() { os.Unsetenv("NTP_PORT") })
	envFile := writeFile(t, ".env", "NTP_PORT=4123\n")

	config, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 4123, config.Port)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	clearEnv(t)
	t.Setenv("NTP_SAMPLES", "20")

	config, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 20, config.Samples)
	assert.ErrorIs(t, config.Validate(), ErrConfig)
}

func TestLoadMissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoadBadEnv(t *testing.T) {
	tests := map[string]string{
		"NTP_PORT":    "ntp",
		"NTP_SAMPLES": "many",
		"NTP_TIMEOUT": "5",
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(name, value)

			_, err := Load("", "")
			assert.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), name)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"no server", func(c *Config) { c.Server = "" }, false},
		{"port zero", func(c *Config) { c.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Port = 65536 }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"zero samples", func(c *Config) { c.Samples = 0 }, false},
		{"max samples", func(c *Config) { c.Samples = query.MaxSamples }, true},
		{"too many samples", func(c *Config) { c.Samples = query.MaxSamples + 1 }, false},
		{"negative ttl", func(c *Config) { c.TTL = -1 }, false},
		{"ttl too large", func(c *Config) { c.TTL = 256 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(&config)
			err := config.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrConfig)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	config := Default()
	config.TTL = 32

	opts := config.Options()
	assert.Equal(t, config.Server, opts.Server)
	assert.Equal(t, config.Port, opts.Port)
	assert.Equal(t, config.Timeout, opts.Timeout)
	assert.Equal(t, 32, opts.TTL)
	assert.Equal(t, query.BurstInterval, opts.Interval)
}
