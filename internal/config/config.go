package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/AndrewLester/ntpclient/pkg/ntp"
	"github.com/AndrewLester/ntpclient/pkg/query"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "/etc/ntpclient.yaml"

type Config struct {
	Server    string        `yaml:"server"`
	Port      int           `yaml:"port"`
	Timeout   time.Duration `yaml:"timeout"`
	Samples   int           `yaml:"samples"`
	TTL       int           `yaml:"ttl"`
	LocalTime bool          `yaml:"local_time"`
	Compare   bool          `yaml:"compare"`
}

func Default() Config {
	return Config{
		Server:    query.DefaultServer,
		Port:      ntp.Port,
		Timeout:   query.DefaultTimeout,
		Samples:   1,
		LocalTime: true,
	}
}

var ErrConfig = errors.New("config parse error")

// Load reads defaults, then the YAML file at path, then the environment
// (after loading envFile if it exists). A missing file at the default
// path is not an error. Load only rejects values it cannot parse; call
// Validate once every layer, flags included, has been applied.
func Load(path, envFile string) (Config, error) {
	config := Default()

	if path != "" {
		if err := config.readFile(path); err != nil {
			if !(errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath) {
				return config, err
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config, fmt.Errorf("%w: %s: %v", ErrConfig, envFile, err)
		}
	}
	if err := config.readEnv(); err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return nil
}

func (c *Config) readEnv() error {
	if server := os.Getenv("NTP_SERVER"); server != "" {
		c.Server = server
	}
	if err := intEnv("NTP_PORT", &c.Port); err != nil {
		return err
	}
	if err := intEnv("NTP_SAMPLES", &c.Samples); err != nil {
		return err
	}
	if timeout := os.Getenv("NTP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("%w: NTP_TIMEOUT requires a duration: %v", ErrConfig, err)
		}
		c.Timeout = d
	}
	return nil
}

func intEnv(name string, value *int) error {
	valueStr := os.Getenv(name)
	if valueStr == "" {
		return nil
	}
	v, err := strconv.Atoi(valueStr)
	if err != nil {
		return fmt.Errorf("%w: %s requires an integer value", ErrConfig, name)
	}
	*value = v
	return nil
}

func (c Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("%w: missing server", ErrConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be between 1 and 65535", ErrConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrConfig)
	}
	if c.Samples < 1 || c.Samples > query.MaxSamples {
		return fmt.Errorf("%w: samples must be between 1 and %d", ErrConfig, query.MaxSamples)
	}
	if c.TTL < 0 || c.TTL > 255 {
		return fmt.Errorf("%w: ttl must be between 0 and 255", ErrConfig)
	}
	return nil
}

func (c Config) Options() query.Options {
	return query.Options{
		Server:   c.Server,
		Port:     c.Port,
		Timeout:  c.Timeout,
		TTL:      c.TTL,
		Interval: query.BurstInterval,
	}
}
