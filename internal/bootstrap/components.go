// Package bootstrap wires the service components together for the
// entrypoints.
package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/script-breakdown/internal/analysis"
	"github.com/jonesrussell/script-breakdown/internal/api"
	"github.com/jonesrussell/script-breakdown/internal/breakdown"
	"github.com/jonesrussell/script-breakdown/internal/classifier"
	"github.com/jonesrussell/script-breakdown/internal/config"
	"github.com/jonesrussell/script-breakdown/internal/conflict"
	"github.com/jonesrussell/script-breakdown/internal/database"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/pipeline"
	"github.com/jonesrussell/script-breakdown/internal/report"
	"github.com/jonesrussell/script-breakdown/internal/supervisor"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

// Components holds everything an entrypoint needs.
type Components struct {
	Config       *config.Config
	Logger       logging.Logger
	Telemetry    *telemetry.Provider
	Registry     *taxonomy.Registry
	Orchestrator *pipeline.Orchestrator
	DB           *sqlx.DB
	HistoryRepo  *database.BreakdownHistoryRepository
	Handler      *api.Handler
}

// Options tweaks component construction.
type Options struct {
	// WithDatabase controls whether the report history store is opened.
	WithDatabase bool
}

// NewComponents builds the full service graph from configuration. Taxonomy
// and supervisor rule validation failures are returned as errors: they are
// configuration problems and must stop startup.
func NewComponents(cfg *config.Config, logger logging.Logger, opts Options) (*Components, error) {
	tp := telemetry.NewProvider()

	registry, err := taxonomy.NewRegistry(taxonomy.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	logger.Info("taxonomy loaded", logging.Int("rules", registry.RuleCount()))

	engine := classifier.NewEngine(registry, logger, tp, classifier.Config{
		Version:     cfg.Service.Version,
		Concurrency: cfg.Service.Concurrency,
	})

	supRules := supervisor.DefaultRules()
	if cfg.Pipeline.RulesPath != "" {
		supRules, err = supervisor.LoadRules(cfg.Pipeline.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load supervisor rules: %w", err)
		}
		logger.Info("supervisor rules loaded",
			logging.String("path", cfg.Pipeline.RulesPath),
			logging.Int("rules", len(supRules)))
	}
	sup, err := supervisor.New(supRules, logger, tp)
	if err != nil {
		return nil, fmt.Errorf("load supervisor rules: %w", err)
	}

	var collaborator pipeline.Collaborator
	if cfg.Analysis.Enabled {
		collaborator = analysis.NewClient(analysis.Config{
			BaseURL:      cfg.Analysis.BaseURL,
			Timeout:      cfg.Analysis.Timeout,
			PollInterval: cfg.Analysis.PollInterval,
		})
	}

	orchestrator := pipeline.New(pipeline.Deps{
		Engine:     engine,
		Aggregator: breakdown.NewAggregator(registry),
		Detector: conflict.NewDetector(logger, tp,
			conflict.WithConfidenceThreshold(cfg.Pipeline.ConfidenceThreshold)),
		Supervisor:   sup,
		Builder:      report.NewBuilder(cfg.Pipeline.HumanReviewThreshold),
		Collaborator: collaborator,
		Logger:       logger,
		Telemetry:    tp,
	})

	comps := &Components{
		Config:       cfg,
		Logger:       logger,
		Telemetry:    tp,
		Registry:     registry,
		Orchestrator: orchestrator,
	}

	if opts.WithDatabase {
		db, dbErr := database.NewSQLiteConnection(database.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxConnections,
			ConnMaxLifetime: cfg.Database.ConnMaxLife,
		})
		if dbErr != nil {
			return nil, fmt.Errorf("open database: %w", dbErr)
		}
		comps.DB = db
		comps.HistoryRepo = database.NewBreakdownHistoryRepository(db)
	}

	comps.Handler = api.NewHandler(orchestrator, registry, comps.HistoryRepo, logger)
	return comps, nil
}

// Close releases held resources.
func (c *Components) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
