package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AppConfig holds the application-level configuration. Every similarity
// threshold and timing parameter lives here rather than in code so a run can
// be tuned without rebuilding.
type AppConfig struct {
	ScreenshotsDir string `mapstructure:"screenshots_dir"`
	OutputPath     string `mapstructure:"output_path"`
	MetadataDir    string `mapstructure:"metadata_dir"`

	HashSampleSize int `mapstructure:"hash_sample_size"`
	HashBlockSize  int `mapstructure:"hash_block_size"`

	FullThreshold   int `mapstructure:"full_threshold"`
	ROIThreshold    int `mapstructure:"roi_threshold"`
	DuplicateStreak int `mapstructure:"duplicate_streak"`

	MaxRetries      int `mapstructure:"max_retries"`
	RetryIntervalMS int `mapstructure:"retry_interval_ms"`
	FocusDelayMS    int `mapstructure:"focus_delay_ms"`
	PageLoadDelayMS int `mapstructure:"page_load_delay_ms"`
	SettleDelayMS   int `mapstructure:"settle_delay_ms"`

	ROILeft   float64 `mapstructure:"roi_left"`
	ROITop    float64 `mapstructure:"roi_top"`
	ROIRight  float64 `mapstructure:"roi_right"`
	ROIBottom float64 `mapstructure:"roi_bottom"`

	MaxPDFDimension int `mapstructure:"max_pdf_dimension"`
}

var Config *AppConfig

// LoadConfig reads config.yaml from the given path, falling back to defaults
// for anything missing. Environment variables override file values.
func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AutomaticEnv()

	viper.SetDefault("screenshots_dir", "./screenshots")
	viper.SetDefault("output_path", "./ebook.pdf")
	viper.SetDefault("metadata_dir", "./metadata")

	viper.SetDefault("hash_sample_size", 32)
	viper.SetDefault("hash_block_size", 8)

	viper.SetDefault("full_threshold", 3)
	viper.SetDefault("roi_threshold", 1)
	viper.SetDefault("duplicate_streak", 10)

	viper.SetDefault("max_retries", 3)
	viper.SetDefault("retry_interval_ms", 300)
	viper.SetDefault("focus_delay_ms", 1000)
	viper.SetDefault("page_load_delay_ms", 500)
	viper.SetDefault("settle_delay_ms", 1000)

	viper.SetDefault("roi_left", 0.2)
	viper.SetDefault("roi_top", 0.75)
	viper.SetDefault("roi_right", 0.8)
	viper.SetDefault("roi_bottom", 0.98)

	viper.SetDefault("max_pdf_dimension", 2880)

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, the defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}

	var appConfig AppConfig
	if err := viper.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	Config = &appConfig
	return nil
}
