// Package analyze holds the CLI command actions.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/seoscope/seoscope/internal/common"
	"github.com/seoscope/seoscope/internal/server"
	"github.com/seoscope/seoscope/models"
	"github.com/seoscope/seoscope/pkg/cache"
	"github.com/seoscope/seoscope/pkg/corpus"
	"github.com/seoscope/seoscope/pkg/db"
	"github.com/seoscope/seoscope/pkg/extractor"
	"github.com/seoscope/seoscope/pkg/fetcher"
	"github.com/seoscope/seoscope/pkg/pipeline"
	"github.com/seoscope/seoscope/pkg/serp"
	"github.com/seoscope/seoscope/pkg/similarity"
)

// env stores the SERP provider credentials.
const (
	envSerpLogin    = "SERP_LOGIN"
	envSerpPassword = "SERP_PASSWORD"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func loadEnv(logger *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}
}

func serpCredentials() (serp.Credentials, error) {
	credentials := serp.Credentials{
		Login:    os.Getenv(envSerpLogin),
		Password: os.Getenv(envSerpPassword),
	}
	if credentials.Login == "" || credentials.Password == "" {
		return serp.Credentials{}, fmt.Errorf("SERP credentials missing: set %s and %s", envSerpLogin, envSerpPassword)
	}
	return credentials, nil
}

type deps struct {
	config *models.Config
	store  *db.DB
	runner *pipeline.Runner
	cache  *cache.Cache
}

func buildDeps(c *cli.Context, logger *slog.Logger) (*deps, error) {
	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if dbPath := c.String("db"); dbPath != "" {
		config.DatabasePath = dbPath
	}

	credentials, err := serpCredentials()
	if err != nil {
		return nil, err
	}

	store, err := db.OpenPath(config.DatabasePath)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(config.ProxyEndpoints, config.FetchRetries, config.FetchRetryDelay.Std(), config.FetchTimeout.Std(), logger)
	builder := corpus.NewBuilder(f, extractor.New(logger), config.CompetitorDelay.Std(), logger)
	analysisCache := cache.New(store, config.CacheTTL.Std(), logger)
	scorer := similarity.NewScorer(similarity.NewMockEmbedder(), logger)
	serpClient := serp.NewClient(config.Serp, credentials, logger)

	runner := pipeline.NewRunner(store, serpClient, builder, analysisCache, scorer, config, logger)

	return &deps{config: config, store: store, runner: runner, cache: analysisCache}, nil
}

func (d *deps) close() {
	d.cache.Stop()
	if err := d.store.Close(); err != nil {
		slog.Default().Warn("Failed to close database", "error", err)
	}
}

// AnalyzeAction runs one full keyword analysis and prints the stored record
// as indented JSON.
func AnalyzeAction(c *cli.Context) error {
	logger := newLogger(c)
	loadEnv(logger)

	keyword := strings.TrimSpace(c.String("keyword"))
	if keyword == "" {
		return fmt.Errorf("no keyword provided via --keyword flag")
	}

	targetURL := common.SanitizeURL(c.String("url"))
	if targetURL != "" && !common.ValidateURL(targetURL) {
		return fmt.Errorf("invalid URL %q: expected an http(s) URL", targetURL)
	}

	d, err := buildDeps(c, logger)
	if err != nil {
		return err
	}
	defer d.close()

	id, err := d.store.CreateAnalysis(keyword, targetURL)
	if err != nil {
		return err
	}
	logger.Info("Starting analysis", "id", id, "keyword", keyword)

	if err := d.runner.Run(context.Background(), id); err != nil {
		return err
	}

	analysis, err := d.store.GetAnalysis(id)
	if err != nil {
		return err
	}

	outputData, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(outputData))
	return nil
}

// DifficultyAction runs only the SERP lookup and prints the difficulty
// score with the raw result rows.
func DifficultyAction(c *cli.Context) error {
	logger := newLogger(c)
	loadEnv(logger)

	keyword := strings.TrimSpace(c.String("keyword"))
	if keyword == "" {
		return fmt.Errorf("no keyword provided via --keyword flag")
	}

	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	credentials, err := serpCredentials()
	if err != nil {
		return err
	}

	serpClient := serp.NewClient(config.Serp, credentials, logger)
	results, err := serpClient.Search(context.Background(), keyword, config.Serp.LocationCode)
	if err != nil {
		return err
	}

	output := struct {
		Keyword    string                 `json:"keyword"`
		Difficulty int                    `json:"difficulty"`
		Results    []models.SerpResultRow `json:"results"`
	}{
		Keyword:    keyword,
		Difficulty: serp.Difficulty(results),
		Results:    results,
	}

	outputData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(outputData))
	return nil
}

// ServeAction starts the HTTP API and blocks until the server exits.
func ServeAction(c *cli.Context) error {
	logger := newLogger(c)
	loadEnv(logger)

	d, err := buildDeps(c, logger)
	if err != nil {
		return err
	}
	defer d.close()

	addr := c.String("addr")
	if addr == "" {
		addr = d.config.ListenAddr
	}

	return server.New(d.store, d.runner, logger).Run(addr)
}
