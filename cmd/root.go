package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-evaluator"
)

type Config struct {
	AI       *AIConfig      `mapstructure:"ai" validate:"required"`
	Document DocumentConfig `mapstructure:"document"`
	History  HistoryConfig  `mapstructure:"history"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

type AIConfig struct {
	Provider             string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Timeout              time.Duration `mapstructure:"timeout" validate:"gte=0"`
	StructuredExtraction bool          `mapstructure:"structured-extraction"`
	ConcurrentPasses     bool          `mapstructure:"concurrent-passes"`
	Gemini               *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type DocumentConfig struct {
	MaxSizeMB int `mapstructure:"max-size-mb" validate:"gte=0,lte=100"`
}

type HistoryConfig struct {
	Capacity int `mapstructure:"capacity" validate:"gte=0"`
}

type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type PipelineConfig struct {
	StrictQuality bool `mapstructure:"strict-quality"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-evaluator scores résumés against a job description with Gemini",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key":      "GEMINI_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", 60*time.Second)
	viper.SetDefault("ai.structured-extraction", true)
	viper.SetDefault("ai.concurrent-passes", true)
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.max-retries", 0)
	viper.SetDefault("ai.gemini.max-log-length", 200)
	viper.SetDefault("document.max-size-mb", 10)
	viper.SetDefault("history.capacity", 100)
	viper.SetDefault("pipeline.strict-quality", false)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-evaluator.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Only the evaluation commands read configuration.
	if evaluateCmd.CalledAs() == "" && extractCmd.CalledAs() == "" {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine, defaults and env cover it.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
