package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all settings for pricescope.
type Config struct {
	DataDir     string           `mapstructure:"data_dir"`
	AnalysisDir string           `mapstructure:"analysis_dir"`
	ChartsDir   string           `mapstructure:"charts_dir"`
	CacheDir    string           `mapstructure:"cache_dir"`
	CacheTTL    string           `mapstructure:"cache_ttl"`
	NoCache     bool             `mapstructure:"no_cache"`
	TopN        int              `mapstructure:"top_n"`
	LogLevel    string           `mapstructure:"log_level"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	GitHub      GitHubConfig     `mapstructure:"github"`
}

// OpenRouterConfig holds upstream API settings.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GitHubConfig holds publish settings. Publishing is disabled when Token is
// empty.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	BaseBranch string `mapstructure:"base_branch"`
	RepoPath   string `mapstructure:"repo_path"`
}

// DatasetPath is where fetch writes the condensed dataset and the analysis
// commands read it from.
func (c *Config) DatasetPath() string {
	return filepath.Join(c.DataDir, "all-models.csv")
}

// ManifestPath is the snapshot manifest location.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.DataDir, "manifest.yaml")
}

// SnapshotPath is where fetch stores the raw upstream JSON.
func (c *Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "models-with-tools.json")
}

// Load reads configuration from file, environment, and defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("data_dir", "data/parsed")
	v.SetDefault("analysis_dir", "analysis")
	v.SetDefault("charts_dir", "analysis/charts")
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "1h")
	v.SetDefault("no_cache", false)
	v.SetDefault("top_n", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("github.base_branch", "main")
	v.SetDefault("github.repo_path", ".")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pricescope")
	}

	v.SetEnvPrefix("PRICESCOPE")
	v.AutomaticEnv()

	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.base_url", "PRICESCOPE_OPENROUTER_BASE_URL")
	_ = v.BindEnv("github.token", "GITHUB_TOKEN")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/pricescope-cache"
	}
	return filepath.Join(home, ".cache", "pricescope")
}
