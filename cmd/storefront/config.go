package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paperlane/storefront/internal/gateway"
	"github.com/paperlane/storefront/internal/model"
	"github.com/paperlane/storefront/internal/session"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	defaultBaseURL  = "http://localhost:8080"
	defaultBindHost = "127.0.0.1"
	defaultLogLevel = "info"
)

type appConfig struct {
	BaseURL     string            `mapstructure:"base-url"`
	Timeout     time.Duration     `mapstructure:"timeout"`
	Endpoints   gateway.Endpoints `mapstructure:"endpoints"`
	Debug       bool              `mapstructure:"debug"`
	DownloadDir string            `mapstructure:"download-dir"`
	DBPath      string            `mapstructure:"db-path"`
	APIPort     int               `mapstructure:"api-port"`
	APIAddr     string            `mapstructure:"api-addr"`
	LogFile     string            `mapstructure:"log-file"`
	LogLevel    string            `mapstructure:"log-level"`
	LogJSON     bool              `mapstructure:"log-json"`
	SessionPath string            `mapstructure:"session-path"`
	Skin        string            `mapstructure:"skin"`
	ToastTTL    time.Duration     `mapstructure:"toast-ttl"`
	PageSize    int               `mapstructure:"page-size"`

	ConfigDir  string `mapstructure:"-"`
	ConfigPath string `mapstructure:"-"`
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "storefront")

	v := viper.New()
	v.SetEnvPrefix("STOREFRONT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("base-url", defaultBaseURL)
	v.SetDefault("timeout", model.DefaultRequestTimeout)
	v.SetDefault("endpoints.plans", gateway.DefaultEndpoints.Plans)
	v.SetDefault("endpoints.template", gateway.DefaultEndpoints.Template)
	v.SetDefault("endpoints.agencies", gateway.DefaultEndpoints.Agencies)
	v.SetDefault("endpoints.signup", gateway.DefaultEndpoints.Signup)
	v.SetDefault("debug", false)
	v.SetDefault("download-dir", "")
	v.SetDefault("db-path", "")
	v.SetDefault("api-port", model.DefaultAPIPort)
	v.SetDefault("api-addr", "")
	v.SetDefault("log-file", filepath.Join(home, ".local", "state", "storefront", "storefront.log"))
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-json", false)
	v.SetDefault("session-path", session.DefaultPath())
	v.SetDefault("skin", model.DefaultSkin)
	v.SetDefault("toast-ttl", model.DefaultToastTTL)
	v.SetDefault("page-size", model.DefaultPageSize)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigDir = configDir
	if used := v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			cfg.ConfigPath = used
		}
	}

	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.PageSize <= 0 || cfg.PageSize > model.MaxPageSize {
		return cfg, fmt.Errorf("invalid page-size: %d", cfg.PageSize)
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, fmt.Errorf("invalid log-level: %w", err)
	}

	// Expand ~ in paths
	for _, p := range []*string{&cfg.DBPath, &cfg.DownloadDir, &cfg.LogFile, &cfg.SessionPath} {
		if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func (c appConfig) gatewayConfig() gateway.Config {
	return gateway.Config{
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		Endpoints: c.Endpoints,
		Debug:     c.Debug,
	}
}

func (c appConfig) logLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
