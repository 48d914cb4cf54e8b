package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	RegistryURL string        `mapstructure:"registry_url"`
	CheckTLS    bool          `mapstructure:"check_tls"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	AppTitle    string        `mapstructure:"app_title"`
	Language    string        `mapstructure:"language"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogFile     string        `mapstructure:"log_file"`
	Debug       bool          `mapstructure:"debug"`
	Cache       CacheConfig   `mapstructure:"cache"`
}

// CacheConfig holds image details cache settings.
type CacheConfig struct {
	Dir    string        `mapstructure:"dir"`
	TTL    time.Duration `mapstructure:"ttl"`
	SizeMB int           `mapstructure:"size_mb"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry_url", "")
	v.SetDefault("check_tls", true)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("app_title", "Harbor")
	v.SetDefault("language", "en")
	v.SetDefault("concurrency", 8)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("cache.dir", filepath.Join(os.TempDir(), "harbor", "images"))
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.size_mb", 50)
}

// New returns a viper instance wired for file and env lookup. Env var
// overrides use prefix HARBOR_. An explicit path wins over HARBOR_CONFIG,
// which wins over ~/.config/harbor/config.*.
func New(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if path == "" {
		path = os.Getenv("HARBOR_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "harbor"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HARBOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if present and unmarshals the result.
// A missing file is not an error; a malformed one is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist surfaces as an fs.PathError.
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate checks the fields the registry client depends on.
func (c Config) Validate() error {
	if c.RegistryURL == "" {
		return fmt.Errorf("registry url is required (use --registry or HARBOR_REGISTRY_URL)")
	}
	u, err := url.Parse(c.RegistryURL)
	if err != nil {
		return fmt.Errorf("invalid registry url %q: %w", c.RegistryURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("registry url %q must use http or https", c.RegistryURL)
	}
	if u.Host == "" {
		return fmt.Errorf("registry url %q has no host", c.RegistryURL)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}

// Title returns the application title shown in the header.
func (c Config) Title() string {
	if c.AppTitle == "" {
		return "Harbor"
	}
	return c.AppTitle
}
