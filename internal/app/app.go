package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/ai"
	"github.com/khrees2412/hireflow/internal/ai/gemini"
	"github.com/khrees2412/hireflow/internal/config"
	"github.com/khrees2412/hireflow/internal/database"
	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/internal/scoring"
	"github.com/khrees2412/hireflow/internal/workflow"
)

// Options are the command line overrides applied on top of the config file
type Options struct {
	ConfigPath string
	JSONLogs   bool
	Debug      bool
}

// App is the dependency container for the CLI application
type App struct {
	Store      *database.Store
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Service    *workflow.Service
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context, opts Options) (*App, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	log, err := logger.New(cfg.Log.JSON || opts.JSONLogs, cfg.Log.Debug || opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store, err := database.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	httpClient := &http.Client{
		Timeout: cfg.Oracle.Timeout + 5*time.Second,
	}

	generator, err := NewGenerator(ctx, cfg.Oracle, httpClient)
	if err != nil {
		log.Warn("scoring oracle disabled, using fallback scores", zap.String("provider", cfg.Oracle.Provider), zap.Error(err))
		generator = nil
	}

	var oracle scoring.Oracle
	if generator != nil {
		oracle = ai.NewScoreOracle(generator, log)
	}
	engine := scoring.NewEngine(oracle, cfg.Oracle.Timeout, log)

	service := workflow.NewService(workflow.Deps{
		Store:     store,
		Scorer:    engine,
		Questions: ai.NewQuestionWriter(generator, cfg.Oracle.Timeout, log),
		Logger:    log,
	}, workflow.Config{
		ShortlistThreshold: cfg.Workflow.ShortlistThreshold,
		WillingnessDays:    cfg.Workflow.WillingnessDays,
		StoreTimeout:       cfg.Store.Timeout,
	})

	log.Debug("app initialized",
		zap.String("config", configPath),
		zap.String("database", cfg.DatabasePath),
		zap.String("oracle", cfg.Oracle.Provider),
	)

	return &App{
		Store:      store,
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     log,
		Service:    service,
	}, nil
}

// NewGenerator builds the text generator for the configured oracle provider.
// It returns nil when no provider is configured.
func NewGenerator(ctx context.Context, cfg config.OracleConfig, httpClient *http.Client) (ai.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "none":
		return nil, nil
	case "gemini":
		key, err := config.LoadSecret("oracle.gemini_key", cfg.GeminiKey, cfg.GeminiKeyFile)
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, errors.New("Gemini API key not configured. Run: hireflow config set oracle.gemini_key YOUR_KEY")
		}
		return gemini.NewGenerator(ctx, key, cfg.Model)
	default:
		client, err := ai.NewClient(cfg, httpClient)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Close closes all resources
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
