package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Victor-armando18/azure-connector/internal/infrastructure/transport"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "AZC"

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	LogicApp struct {
		BaseURL    string            `mapstructure:"base_url"`
		DebugPath  string            `mapstructure:"debug_path"`
		PathSuffix string            `mapstructure:"path_suffix"`
		Timeout    time.Duration     `mapstructure:"timeout"`
		Headers    map[string]string `mapstructure:"headers"`
	} `mapstructure:"logicapp"`
	Validation struct {
		RulesPath     string   `mapstructure:"rules_path"`
		Strict        bool     `mapstructure:"strict"`
		KnownLicenses []string `mapstructure:"known_licenses"`
	} `mapstructure:"validation"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// Load lê config.yaml (ou o ficheiro indicado), junta o .env do diretório atual
// e aplica variáveis AZC_*. Ficheiros em falta não são erro; base_url em falta é.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	vp := viper.New()
	setDefaults(vp)

	vp.SetEnvPrefix(EnvPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if path != "" {
		vp.SetConfigFile(path)
	} else {
		vp.AddConfigPath(".")
		vp.SetConfigName("config")
		vp.SetConfigType("yaml")
	}
	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	// AZC_VALIDATION_KNOWN_LICENSES chega como "a, b"
	cfg.Validation.KnownLicenses = splitList(strings.Join(cfg.Validation.KnownLicenses, ","))
	if cfg.LogicApp.BaseURL == "" {
		return nil, fmt.Errorf("logicapp.base_url is required (env %s_LOGICAPP_BASE_URL)", EnvPrefix)
	}
	return &cfg, nil
}

func setDefaults(vp *viper.Viper) {
	vp.SetDefault("server.port", "8080")
	vp.SetDefault("logicapp.base_url", "")
	vp.SetDefault("logicapp.debug_path", transport.DefaultDebugPath)
	vp.SetDefault("logicapp.path_suffix", "")
	vp.SetDefault("logicapp.timeout", transport.DefaultTimeout)
	vp.SetDefault("logicapp.headers", map[string]string{})
	vp.SetDefault("validation.rules_path", "")
	vp.SetDefault("validation.strict", false)
	vp.SetDefault("validation.known_licenses", []string{})
	vp.SetDefault("log.level", "info")
	vp.SetDefault("log.format", "text")
}

func (c *Config) Transport() transport.Config {
	return transport.Config{
		BaseURL:    c.LogicApp.BaseURL,
		DebugPath:  c.LogicApp.DebugPath,
		PathSuffix: c.LogicApp.PathSuffix,
		Timeout:    c.LogicApp.Timeout,
		Headers:    c.LogicApp.Headers,
	}
}

// NewLogger monta o slog.Logger pedido por log.level e log.format.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
