package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/dashboard"
	"github.com/spigell/jobmatch/internal/extract"
	"github.com/spigell/jobmatch/internal/filtering"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/secrets"
	"github.com/spigell/jobmatch/internal/server"
	"github.com/spigell/jobmatch/internal/skills"
	"github.com/spigell/jobmatch/internal/store"
)

const (
	sourceFile   = "file"
	sourceSQLite = "sqlite"
	sourceFeed   = "feed"

	feedTokenEnv = "JOBMATCH_FEED_TOKEN"
)

// bootstrap builds the logger and decodes the config. Failures are fatal.
func bootstrap() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

// newEngine wires the engine components from config.
func newEngine(config *Config, logger *zap.Logger) (server.Engine, error) {
	dict := skills.Default()
	if path := strings.TrimSpace(config.Skills.File); path != "" {
		loaded, err := skills.LoadDictionary(path)
		if err != nil {
			return server.Engine{}, fmt.Errorf("loading skills dictionary: %w", err)
		}
		dict = loaded
		logger.Info("loaded skills dictionary",
			zap.String("path", path),
			zap.String("version", dict.Version()),
			zap.Int("skills", dict.Len()),
		)
		logger.Debug("skills dictionary entries", zap.Strings("entries", dict.Entries()))
	}

	extractor := extract.New(logger, config.Log.MaxLength)
	opts := matching.Options{MaxFeatures: config.Engine.MaxFeatures}
	scorer := matching.NewPairScorer(extractor, logger, opts)

	return server.Engine{
		Extractor:   extractor,
		Scorer:      scorer,
		Recommender: matching.NewRecommender(extractor, logger, opts),
		Similar:     matching.NewSimilarFinder(logger),
		Scanner:     dashboard.NewScanner(extractor, scorer, config.Scan.Workers, logger),
		Tagger:      skills.NewTagger(dict),
	}, nil
}

// loadPool reads jobs from the configured source.
func loadPool(ctx context.Context, config *Config, logger *zap.Logger) (*jobs.Pool, error) {
	source := strings.ToLower(strings.TrimSpace(config.Jobs.Source))

	var (
		pool *jobs.Pool
		err  error
	)
	switch source {
	case "", sourceFile:
		if strings.TrimSpace(config.Jobs.File) == "" {
			return nil, errors.New("jobs.file is required for the file source")
		}
		pool, err = jobs.LoadFile(config.Jobs.File)
	case sourceSQLite:
		pool, err = loadSQLite(ctx, config.Jobs.SQLite.Path)
	case sourceFeed:
		pool, err = loadFeed(ctx, config.Jobs.Feed, logger)
	default:
		return nil, fmt.Errorf("unsupported jobs source: %s", config.Jobs.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("loading jobs from %s source: %w", source, err)
	}

	if config.Jobs.StripHTML {
		pool.StripHTML()
	}

	logger.Info("jobs loaded", zap.String("source", source), zap.Int("count", pool.Len()))
	return pool, nil
}

func loadSQLite(ctx context.Context, path string) (*jobs.Pool, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("jobs.sqlite.path is required for the sqlite source")
	}

	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	return db.Jobs(ctx)
}

func loadFeed(ctx context.Context, cfg FeedConfig, logger *zap.Logger) (*jobs.Pool, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("jobs.feed.url is required for the feed source")
	}

	token, err := secrets.Load(secrets.Source{
		Name: "job feed token",
		File: cfg.TokenFile,
		Env:  feedTokenEnv,
	})
	if err != nil {
		// Public feeds need no token; a configured but unreadable file is still an error.
		if strings.TrimSpace(cfg.TokenFile) != "" {
			return nil, err
		}
		logger.Debug("requesting job feed without a token", zap.Error(err))
		token = ""
	}

	feed := jobs.NewFeed(cfg.URL, token, logger.With(zap.String("component", "job_feed")))
	if cfg.UserAgent != "" {
		feed.UserAgent = cfg.UserAgent
	}
	if cfg.PerPage > 0 {
		feed.PerPage = cfg.PerPage
	}
	feed.MaxRetries = cfg.MaxRetries

	return feed.Fetch(ctx)
}

// applyFilters hides excluded jobs and optionally narrows the pool to one skill.
func applyFilters(pool *jobs.Pool, config *Config, skill string, logger *zap.Logger) (*jobs.Pool, error) {
	steps := []filtering.Filter{
		filtering.NewExcludeFile(config.ExcludeFile),
		filtering.NewSkill(skill),
	}
	if config.ShowExcluded {
		filtering.DisableByName(steps, "exclude_file", "show-excluded is set")
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return filtering.Run(filtering.Deps{Logger: logger}, steps, pool)
}

// prepare runs bootstrap, loads the job pool and builds the engine.
func prepare(ctx context.Context, skill string) (*zap.Logger, *Config, *jobs.Pool, server.Engine) {
	logger, config := bootstrap()

	pool, err := loadPool(ctx, config, logger)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	pool, err = applyFilters(pool, config, skill, logger)
	if err != nil {
		logger.Fatal("filtering jobs", zap.Error(err))
	}

	engine, err := newEngine(config, logger)
	if err != nil {
		logger.Fatal("building the engine", zap.Error(err))
	}

	return logger, config, pool, engine
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
