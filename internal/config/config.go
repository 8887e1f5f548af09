// Package config loads runtime settings from environment variables and an
// optional config file, with defaults matching production budgets.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingJWTSecret means no jwt_secret was supplied via env or file.
// There is no safe default, so startup refuses to continue without one.
var ErrMissingJWTSecret = errors.New("config: jwt_secret is required")

// Budgets per-endpoint request budgets for one rate-limit window.
type Budgets struct {
	ProductList  int `mapstructure:"product_list"`
	ProductWrite int `mapstructure:"product_write"`
	OrderList    int `mapstructure:"order_list"`
	OrderCreate  int `mapstructure:"order_create"`
	Upload       int `mapstructure:"upload"`
}

// Config собранные настройки процесса.
type Config struct {
	ListenAddr    string        `mapstructure:"listen_addr"`
	WindowSeconds int           `mapstructure:"window_seconds"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	Budgets       Budgets       `mapstructure:"budgets"`
	UploadDir     string        `mapstructure:"upload_dir"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
}

// Window returns the rate-limit window as a duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Load reads GODHA_* environment variables and, if path is non-empty, a yaml
// config file. Env wins over file, file wins over defaults.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":9091")
	v.SetDefault("window_seconds", 60)
	v.SetDefault("sweep_interval", 5*time.Minute)
	v.SetDefault("budgets.product_list", 120)
	v.SetDefault("budgets.product_write", 30)
	v.SetDefault("budgets.order_list", 60)
	v.SetDefault("budgets.order_create", 20)
	v.SetDefault("budgets.upload", 20)
	v.SetDefault("upload_dir", "./data/uploads")
	v.SetDefault("public_base_url", "http://localhost:9091")
	v.SetDefault("jwt_secret", "")

	v.SetEnvPrefix("GODHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}
	return cfg, nil
}
