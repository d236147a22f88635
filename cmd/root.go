package cmd

import (
	"errors"
	"log"

	"github.com/spigell/job-ranker/internal/adzuna"
	"github.com/spigell/job-ranker/internal/filtering"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-ranker"
)

type Config struct {
	Resume     string               `mapstructure:"resume"`
	ResultsDir string               `mapstructure:"results-dir"`
	Output     string               `mapstructure:"output"`
	TopN       int                  `mapstructure:"top-n"`
	Search     *adzuna.SearchParams `mapstructure:"search"`
	Filters    *filtering.Criteria  `mapstructure:"filters"`
	Adzuna     *AdzunaConfig        `mapstructure:"adzuna"`
	Embedding  *EmbeddingConfig     `mapstructure:"embedding"`
}

type AdzunaConfig struct {
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	OpenAI   *OpenAIConfig `mapstructure:"openai"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-ranker is a simple cli for ranking job postings against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"adzuna.app-id-file":            "ADZUNA_APP_ID_FILE",
		"adzuna.app-key-file":           "ADZUNA_APP_KEY_FILE",
		"embedding.openai.api-key-file": "OPENAI_API_KEY_FILE",
		"embedding.gemini.api-key-file": "GEMINI_API_KEY_FILE",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Flags and environment variables can carry a full setup, so a
		// missing default config is fine. An explicit --config is not.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}

		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
