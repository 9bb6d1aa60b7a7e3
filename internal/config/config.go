// Package config loads the proxy configuration from configs/config.yml and PROXY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smarthome_proxy/internal/models"

	"github.com/spf13/viper"
)

const envPrefix = "PROXY"

const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port   string       `mapstructure:"port"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"db"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cloud  CloudConfig  `mapstructure:"cloud"`
	CORS   CORSConfig   `mapstructure:"cors"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Influx InfluxConfig `mapstructure:"influx"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // file | sqlite
	Path   string `mapstructure:"path"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	Refresh    bool          `mapstructure:"refresh"`
}

type CloudConfig struct {
	AppID          string            `mapstructure:"app_id"`
	AppSecret      string            `mapstructure:"app_secret"`
	RedirectURL    string            `mapstructure:"redirect_url"`
	AppRedirectURL string            `mapstructure:"app_redirect_url"`
	OAuthPageURL   string            `mapstructure:"oauth_page_url"`
	Timeout        time.Duration     `mapstructure:"timeout"`
	AccessTTL      time.Duration     `mapstructure:"access_ttl"`
	BaseURLs       map[string]string `mapstructure:"base_urls"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         int    `mapstructure:"qos"`
}

type InfluxConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Token         string        `mapstructure:"token"`
	Org           string        `mapstructure:"org"`
	Bucket        string        `mapstructure:"bucket"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

var defaults = map[string]any{
	"port":                   "8080",
	"log.level":              "info",
	"log.format":             "console",
	"db.path":                "app.db",
	"store.driver":           StoreFile,
	"store.path":             "token.json",
	"auth.signing_key":       "",
	"auth.session_ttl":       30 * 24 * time.Hour,
	"auth.refresh":           true,
	"cloud.app_id":           "",
	"cloud.app_secret":       "",
	"cloud.redirect_url":     "",
	"cloud.app_redirect_url": "myapp://oauth-callback",
	"cloud.oauth_page_url":   "",
	"cloud.timeout":          15 * time.Second,
	"cloud.access_ttl":       30 * 24 * time.Hour,
	"cors.allowed_origins":   []string{"*"},
	"mqtt.enabled":           false,
	"mqtt.broker":            "",
	"mqtt.client_id":         "smarthome-proxy",
	"mqtt.username":          "",
	"mqtt.password":          "",
	"mqtt.topic_prefix":      "smarthome",
	"mqtt.qos":               1,
	"influx.enabled":         false,
	"influx.url":             "",
	"influx.token":           "",
	"influx.org":             "",
	"influx.bucket":          "",
	"influx.batch_size":      100,
	"influx.flush_interval":  10 * time.Second,
}

// Load reads config.yml from the given directories (default "configs"). A missing
// file is not an error: defaults and the environment still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// platform convention for the listen port
	if err := v.BindEnv("port", envPrefix+"_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind port env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate reports the first setting that prevents the proxy from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("auth.signing_key is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	if c.Cloud.AppID == "" || c.Cloud.AppSecret == "" {
		return errors.New("cloud.app_id and cloud.app_secret are required")
	}
	switch c.Store.Driver {
	case StoreFile:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the file store")
		}
	case StoreSQLite:
	default:
		return fmt.Errorf("store.driver %q: must be %q or %q", c.Store.Driver, StoreFile, StoreSQLite)
	}
	for r := range c.Cloud.BaseURLs {
		if _, err := models.ParseRegion(r); err != nil {
			return fmt.Errorf("cloud.base_urls.%s: %w", r, err)
		}
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return errors.New("mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos %d: must be 0, 1 or 2", c.MQTT.QoS)
		}
	}
	if c.Influx.Enabled && (c.Influx.URL == "" || c.Influx.Org == "" || c.Influx.Bucket == "") {
		return errors.New("influx.url, influx.org and influx.bucket are required when influx is enabled")
	}
	return nil
}

// RegionBaseURLs converts cloud.base_urls into region overrides. Call after Validate.
func (c CloudConfig) RegionBaseURLs() map[models.Region]string {
	out := make(map[models.Region]string, len(c.BaseURLs))
	for k, u := range c.BaseURLs {
		if r, err := models.ParseRegion(k); err == nil {
			out[r] = u
		}
	}
	return out
}
