package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/job-ranker/internal/adzuna"
	"github.com/spigell/job-ranker/internal/embedding"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/pipeline"
	"github.com/spigell/job-ranker/internal/ranking"
	"github.com/spigell/job-ranker/internal/results"
	"github.com/spigell/job-ranker/internal/resume"
	"github.com/spigell/job-ranker/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExit            = "Exit"
	PromptReportByCompany = "Report by company"
	PromptResultsToFile   = "Dump recommendations to file"
	PromptPostingsToFile  = "Dump raw postings to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByCompany, PromptResultsToFile, PromptPostingsToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the job-ranker main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("resume", "r", "", "path to the resume file (.txt, .pdf or .docx)")
	runCmd.Flags().String("keywords", "", "search keywords, e.g. 'golang developer'")
	runCmd.Flags().String("location", "", "location to search in")
	runCmd.Flags().String("country", "", "adzuna country code (us, gb, de, ...)")
	runCmd.Flags().Int("max-jobs", 0, "maximum number of postings to fetch")
	runCmd.Flags().Float64("min-salary", 0, "drop postings with a salary floor below this value")
	runCmd.Flags().StringSlice("experience", nil, "keep only these experience levels (e.g. Junior, Mid-Level, Senior)")
	runCmd.Flags().StringSlice("job-type", nil, "keep only these job types (full_time, part_time, contract)")
	runCmd.Flags().StringSlice("skills", nil, "keep only postings mentioning all of these skills")
	runCmd.Flags().Float64("min-score", 0, "drop postings below this similarity score")
	runCmd.Flags().IntP("top-n", "n", 10, "number of recommendations to keep")
	runCmd.Flags().String("results-dir", "results", "directory for run artifacts")
	runCmd.Flags().String("provider", "openai", "embedding provider (openai or gemini)")
	runCmd.Flags().String("model", "", "embedding model (defaults to the provider default)")
	runCmd.Flags().StringP("output", "o", "", "write an extra copy of the recommendations csv to this path")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with the results")

	for key, name := range map[string]string{
		"resume":             "resume",
		"results-dir":        "results-dir",
		"output":             "output",
		"top-n":              "top-n",
		"search.keywords":    "keywords",
		"search.location":    "location",
		"search.country":     "country",
		"search.max_jobs":    "max-jobs",
		"filters.min_salary": "min-salary",
		"filters.experience": "experience",
		"filters.job_types":  "job-type",
		"filters.skills":     "skills",
		"filters.min_score":  "min-score",
		"embedding.provider": "provider",
		"embedding.model":    "model",
	} {
		viper.BindPFlag(key, runCmd.Flags().Lookup(name))
	}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	resumePath := strings.TrimSpace(config.Resume)
	if resumePath == "" {
		logger.Fatal("resume file is required",
			zap.String("hint", "pass --resume or set the 'resume' key in the configuration file"),
		)
	}

	if config.Search == nil || strings.TrimSpace(config.Search.Keywords) == "" {
		logger.Fatal("search keywords are required",
			zap.String("hint", "pass --keywords or set the 'search.keywords' key in the configuration file"),
		)
	}

	appID, appKey, err := resolveAdzunaCredentials(config)
	if err != nil {
		logger.Fatal(
			"loading adzuna credentials",
			zap.Error(err),
			zap.String("hint", "set ADZUNA_APP_ID_FILE and ADZUNA_APP_KEY_FILE environment variables or the 'adzuna' section in the configuration file"),
		)
	}

	source := adzuna.New(ctx, logger, appID, appKey)

	embedder, err := newEmbedder(ctx, config.Embedding, logger)
	if err != nil {
		logger.Fatal("building embedding provider", zap.Error(err))
	}

	store, err := results.NewStore(config.ResultsDir, logger)
	if err != nil {
		logger.Fatal("preparing results directory", zap.Error(err))
	}

	pipe := pipeline.New(resume.NewExtractor(logger), source, embedder, store, logger)

	logger.Info("starting the search", zap.String("keywords", config.Search.Keywords))

	outcome, err := pipe.Run(ctx, &pipeline.Params{
		ResumePath: resumePath,
		Search:     config.Search,
		Criteria:   config.Filters,
		TopN:       config.TopN,
	})
	if err != nil {
		logger.Fatal("pipeline failed",
			zap.String("stage", pipeline.StageOf(err)),
			zap.Error(err),
		)
	}

	if outcome.Postings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	if len(outcome.Filtered) == 0 {
		logger.Info("exiting", zap.String("reason", "no postings left after filters"))
		return
	}

	recommendations := results.Recommendations(outcome.Top)

	pretty, _ = json.MarshalIndent(recommendations, "", "  ")
	logger.Info(fmt.Sprintf("top recommendations: \n%s", pretty))

	logger.Info("top recommendations ready",
		zap.Int("count", len(recommendations)),
		zap.Float64("best_score", outcome.Stats.Max),
		zap.String("results_dir", store.Dir()),
	)

	if output := strings.TrimSpace(config.Output); output != "" {
		if err := results.WriteCSV(output, recommendations); err != nil {
			logger.Fatal("writing recommendations csv", zap.Error(err))
		}

		logger.Info("wrote recommendations csv", zap.String("path", output))
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, outcome, recommendations); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, outcome *pipeline.Outcome, recommendations []results.Recommendation) error {
	switch action {
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(ranking.ReportByCompany(outcome.Top), "", "  ")
		logger.Info(string(pretty), zap.Int("recommendations count", len(outcome.Top)))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile(recommendations)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptPostingsToFile:
		filename, err := outcome.Postings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump postings to file: %w", err)
		}
		logger.Info("dumping postings to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "done"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func resolveAdzunaCredentials(config *Config) (string, string, error) {
	var idFile, keyFile string
	if config.Adzuna != nil {
		idFile = strings.TrimSpace(config.Adzuna.AppIDFile)
		keyFile = strings.TrimSpace(config.Adzuna.AppKeyFile)
	}

	if idFile == "" {
		idFile = strings.TrimSpace(viper.GetString("adzuna.app-id-file"))
	}

	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("adzuna.app-key-file"))
	}

	appID, err := secrets.Load(secrets.Source{Name: "adzuna app id", File: idFile})
	if err != nil {
		return "", "", err
	}

	appKey, err := secrets.Load(secrets.Source{Name: "adzuna app key", File: keyFile})
	if err != nil {
		return "", "", err
	}

	return appID, appKey, nil
}

func newEmbedder(ctx context.Context, cfg *EmbeddingConfig, base *zap.Logger) (pipeline.Embedder, error) {
	if cfg == nil {
		cfg = &EmbeddingConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = "openai"
	}

	model := strings.TrimSpace(cfg.Model)
	embLogger := logger.WithCommonFields(base, provider, model)

	switch provider {
	case "openai":
		var keyFile string
		if cfg.OpenAI != nil {
			keyFile = strings.TrimSpace(cfg.OpenAI.APIKeyFile)
		}
		if keyFile == "" {
			keyFile = strings.TrimSpace(viper.GetString("embedding.openai.api-key-file"))
		}

		apiKey, err := secrets.Load(secrets.Source{Name: "openai api key", File: keyFile})
		if err != nil {
			return nil, fmt.Errorf("%w (set embedding.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		return embedding.NewOpenAI(apiKey, model, embLogger)
	case "gemini":
		var keyFile string
		if cfg.Gemini != nil {
			keyFile = strings.TrimSpace(cfg.Gemini.APIKeyFile)
		}
		if keyFile == "" {
			keyFile = strings.TrimSpace(viper.GetString("embedding.gemini.api-key-file"))
		}

		apiKey, err := secrets.Load(secrets.Source{Name: "gemini api key", File: keyFile})
		if err != nil {
			return nil, fmt.Errorf("%w (set embedding.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		return embedding.NewGemini(ctx, apiKey, model, embLogger)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
