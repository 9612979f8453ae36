// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/leadqual/internal/scoring"
	"github.com/sells-group/leadqual/internal/signal"
	"github.com/sells-group/leadqual/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig            `yaml:"store" mapstructure:"store"`
	Serper     SerperConfig           `yaml:"serper" mapstructure:"serper"`
	Anthropic  AnthropicConfig        `yaml:"anthropic" mapstructure:"anthropic"`
	Salesforce SalesforceConfig       `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig           `yaml:"notion" mapstructure:"notion"`
	Scoring    scoring.Policy         `yaml:"scoring" mapstructure:"scoring"`
	Validation signal.ValidatorConfig `yaml:"validation" mapstructure:"validation"`
	Batch      BatchConfig            `yaml:"batch" mapstructure:"batch"`
	Log        LogConfig              `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// SerperConfig holds Serper search API settings.
type SerperConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	RPS        float64 `yaml:"rps" mapstructure:"rps"`
	MaxResults int     `yaml:"max_results" mapstructure:"max_results"`
}

// AnthropicConfig holds Anthropic API settings for the model detector.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string  `yaml:"client_id" mapstructure:"client_id"`
	Username string  `yaml:"username" mapstructure:"username"`
	KeyPath  string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string  `yaml:"login_url" mapstructure:"login_url"`
	RPS      float64 `yaml:"rps" mapstructure:"rps"`
}

// NotionConfig holds Notion API credentials.
type NotionConfig struct {
	Token  string `yaml:"token" mapstructure:"token"`
	LeadDB string `yaml:"lead_db" mapstructure:"lead_db"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentLeads int `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADQUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadqual.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.max_concurrent_leads", 4)
	v.SetDefault("serper.rps", 5)
	v.SetDefault("serper.max_results", 3)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")

	// Credentials default to empty so env-only values reach Unmarshal.
	for _, key := range []string{
		"serper.key",
		"anthropic.key",
		"salesforce.client_id",
		"salesforce.username",
		"salesforce.key_path",
		"notion.token",
		"notion.lead_db",
	} {
		v.SetDefault(key, "")
	}

	setScoringDefaults(v)
	setValidationDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setScoringDefaults(v *viper.Viper) {
	p := scoring.DefaultPolicy()
	v.SetDefault("scoring.role_points", p.RolePoints)
	v.SetDefault("scoring.industry_points", p.IndustryPoints)
	v.SetDefault("scoring.region_points", p.RegionPoints)
	v.SetDefault("scoring.size_points", p.SizePoints)
	v.SetDefault("scoring.first_degree_points", p.FirstDegreePoints)
	v.SetDefault("scoring.second_degree_points", p.SecondDegreePoints)
	v.SetDefault("scoring.use_domain_match_fallback", p.UseDomainMatchFallback)
	v.SetDefault("scoring.domain_match_points", p.DomainMatchPoints)
	v.SetDefault("scoring.negative_pool", p.NegativePool)
	v.SetDefault("scoring.negative_deduction", p.NegativeDeduction)
	v.SetDefault("scoring.strong_negative_deduction", p.StrongNegativeDeduction)
	v.SetDefault("scoring.strong_negative_types", p.StrongNegativeTypes)
	v.SetDefault("scoring.positive_pool", p.PositivePool)
	v.SetDefault("scoring.positive_points", p.PositivePoints)
	v.SetDefault("scoring.strong_positive_points", p.StrongPositivePoints)
	v.SetDefault("scoring.strong_positive_types", p.StrongPositiveTypes)
	v.SetDefault("scoring.engagement_points", p.EngagementPoints)
	v.SetDefault("scoring.tiers.money", p.Tiers.Money)
	v.SetDefault("scoring.tiers.hot", p.Tiers.Hot)
	v.SetDefault("scoring.tiers.warm", p.Tiers.Warm)
}

func setValidationDefaults(v *viper.Viper) {
	c := signal.DefaultValidatorConfig()
	v.SetDefault("validation.min_content_length", c.MinContentLength)
	v.SetDefault("validation.high_credibility", c.HighCredibility)
	v.SetDefault("validation.lower_credibility", c.LowerCredibility)
	v.SetDefault("validation.recent_window", c.RecentWindow)
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
