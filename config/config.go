package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const DEFAULT_CONFIG_PATH = "config.yaml"

const (
	ENV_DEV  = "dev"
	ENV_PROD = "prod"
)

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"redis:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	// UseMock keeps everything in memory; handy without a Redis server.
	UseMock bool `yaml:"use_mock" env:"REDIS_USE_MOCK"`
}

type RecordsAPIConfig struct {
	BaseURL string `yaml:"base_url" env:"RECORDS_API_BASE_URL"`
	APIKey  string `yaml:"api_key" env:"RECORDS_API_KEY"`
	// UseMock serves records from the JSON fixtures in ResourcesDir.
	UseMock bool `yaml:"use_mock" env:"RECORDS_API_USE_MOCK"`
}

type RefreshConfig struct {
	Cron             string `yaml:"cron" env:"REFRESH_CRON" env-default:"0 */6 * * *"`
	MaxRetries       int    `yaml:"max_retries" env:"REFRESH_MAX_RETRIES" env-default:"3"`
	RetryWaitSeconds int    `yaml:"retry_wait_seconds" env:"REFRESH_RETRY_WAIT_SECONDS" env-default:"5"`
	SkipOnStartup    bool   `yaml:"skip_on_startup" env:"REFRESH_SKIP_ON_STARTUP"`
}

// Config is the top-level application configuration. Values come from the
// YAML file, then environment variables, then env-default tags.
type Config struct {
	Env          string           `yaml:"env" env:"APP_ENV" env-default:"dev"`
	Listen       string           `yaml:"listen" env:"LISTEN_ADDR" env-default:":8080"`
	Timezone     string           `yaml:"timezone" env:"TIMEZONE" env-default:"Asia/Dubai"`
	ResourcesDir string           `yaml:"resources_dir" env:"RESOURCES_DIR" env-default:"resources"`
	Redis        RedisConfig      `yaml:"redis"`
	RecordsAPI   RecordsAPIConfig `yaml:"records_api"`
	Refresh      RefreshConfig    `yaml:"refresh"`
}

// DefaultConfig is what `config init` writes: the env-default values with
// the records API served from fixtures.
func DefaultConfig() *Config {
	return &Config{
		Env:          ENV_DEV,
		Listen:       ":8080",
		Timezone:     "Asia/Dubai",
		ResourcesDir: "resources",
		Redis: RedisConfig{
			Addr: "redis:6379",
		},
		RecordsAPI: RecordsAPIConfig{
			UseMock: true,
		},
		Refresh: RefreshConfig{
			Cron:             "0 */6 * * *",
			MaxRetries:       3,
			RetryWaitSeconds: 5,
		},
	}
}

// Load reads path when it exists. Otherwise it starts from DefaultConfig and
// applies the environment on top. An empty path means no file.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := path != ""
	if readFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			readFile = false
		}
	}

	var err error
	if readFile {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		cfg = *DefaultConfig()
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Refresh.MaxRetries < 0 {
		return fmt.Errorf("refresh.max_retries must not be negative, got %d", c.Refresh.MaxRetries)
	}
	if c.Refresh.RetryWaitSeconds < 0 {
		return fmt.Errorf("refresh.retry_wait_seconds must not be negative, got %d", c.Refresh.RetryWaitSeconds)
	}
	if !c.RecordsAPI.UseMock && c.RecordsAPI.BaseURL == "" {
		return errors.New("records_api.base_url is required unless records_api.use_mock is set")
	}
	return nil
}

// Location is the calendar zone used for date keys and "today".
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) RetryWait() time.Duration {
	return time.Duration(c.Refresh.RetryWaitSeconds) * time.Second
}

// Save writes cfg as YAML with 0600 permissions via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nightlife-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
