package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/at-ishikawa/langtable/internal/annotate"
	"github.com/at-ishikawa/langtable/internal/translate/google"
)

type Config struct {
	Table       TableConfig     `mapstructure:"table"`
	Translate   TranslateConfig `mapstructure:"translate"`
	Detect      OperationConfig `mapstructure:"detect"`
	Translation OperationConfig `mapstructure:"translation"`
	Retry       RetryConfig     `mapstructure:"retry"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Verbose     bool            `mapstructure:"verbose"`
}

type TableConfig struct {
	DescriptionColumn string `mapstructure:"description_column" validate:"required"`
	TextColumn        string `mapstructure:"text_column" validate:"required"`
	InputEncoding     string `mapstructure:"input_encoding" validate:"oneof=latin1 utf-8"`
}

type TranslateConfig struct {
	Provider        string        `mapstructure:"provider" validate:"oneof=google"`
	CredentialsFile string        `mapstructure:"credentials_file" validate:"required"`
	BaseURL         string        `mapstructure:"base_url" validate:"required,url"`
	TargetLanguage  string        `mapstructure:"target_language" validate:"required"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// OperationConfig holds the delays specific to detection or translation
type OperationConfig struct {
	InitialDelay time.Duration `mapstructure:"initial_delay" validate:"gte=0"`
	Throttle     time.Duration `mapstructure:"throttle" validate:"gte=0"`
}

type RetryConfig struct {
	EscalatedDelay time.Duration `mapstructure:"escalated_delay" validate:"gte=0"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay" validate:"gte=0"`
	ReconnectAfter uint          `mapstructure:"reconnect_after" validate:"gte=1"`
	MaxAttempts    uint          `mapstructure:"max_attempts" validate:"gtfield=ReconnectAfter"`
}

type CacheConfig struct {
	// Directory stores API responses. Caching is disabled when empty.
	Directory string `mapstructure:"directory"`
}

// DetectPolicy returns the retry policy of language detection
func (cfg Config) DetectPolicy() annotate.Policy {
	return cfg.policy(cfg.Detect.InitialDelay)
}

// TranslatePolicy returns the retry policy of translation
func (cfg Config) TranslatePolicy() annotate.Policy {
	return cfg.policy(cfg.Translation.InitialDelay)
}

func (cfg Config) policy(initial time.Duration) annotate.Policy {
	return annotate.Policy{
		Initial:        initial,
		Escalated:      cfg.Retry.EscalatedDelay,
		ReconnectDelay: cfg.Retry.ReconnectDelay,
		ReconnectAfter: cfg.Retry.ReconnectAfter,
		MaxAttempts:    cfg.Retry.MaxAttempts,
	}
}

func (cfg Config) Columns() annotate.Columns {
	columns := annotate.DefaultColumns()
	columns.Description = cfg.Table.DescriptionColumn
	columns.Text = cfg.Table.TextColumn
	return columns
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/langtable")
	}

	defaultPolicy := annotate.DetectPolicy()
	v.SetDefault("table.description_column", "db_description_full")
	v.SetDefault("table.text_column", "text")
	v.SetDefault("table.input_encoding", "latin1")
	v.SetDefault("translate.provider", "google")
	v.SetDefault("translate.credentials_file", "private/key.json")
	v.SetDefault("translate.base_url", google.DefaultBaseURL)
	v.SetDefault("translate.target_language", annotate.DefaultTargetLanguage)
	v.SetDefault("translate.timeout", 30*time.Second)
	v.SetDefault("detect.initial_delay", defaultPolicy.Initial)
	v.SetDefault("detect.throttle", annotate.DefaultDetectThrottle)
	v.SetDefault("translation.initial_delay", annotate.TranslatePolicy().Initial)
	v.SetDefault("translation.throttle", annotate.DefaultTranslateThrottle)
	v.SetDefault("retry.escalated_delay", defaultPolicy.Escalated)
	v.SetDefault("retry.reconnect_delay", defaultPolicy.ReconnectDelay)
	v.SetDefault("retry.reconnect_after", defaultPolicy.ReconnectAfter)
	v.SetDefault("retry.max_attempts", defaultPolicy.MaxAttempts)
	v.SetDefault("cache.directory", "")
	v.SetDefault("verbose", true)

	if err := v.BindEnv("translate.credentials_file", "GOOGLE_TRANSLATE_CREDENTIALS"); err != nil {
		return nil, fmt.Errorf("failed to bind GOOGLE_TRANSLATE_CREDENTIALS environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.Table.InputEncoding = strings.ToLower(cfg.Table.InputEncoding)

	return &cfg, nil
}
