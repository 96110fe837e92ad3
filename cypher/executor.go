// Package cypher runs Cypher queries through the Neo4j Go driver and
// converts their records into visualization responses.
package cypher

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/teranos/resultviz/errors"
	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/viz"
)

// Runner executes a Cypher query and buffers its records.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error)
}

// Config locates and authenticates against a Neo4j database.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Executor is the Runner backed by a Neo4j driver.
type Executor struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewExecutor creates a driver for cfg. The driver connects lazily; use
// Verify to check the database is reachable.
func NewExecutor(cfg Config) (*Executor, error) {
	if cfg.URI == "" {
		return nil, errors.NewInvalidRequestError("neo4j uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, errors.Wrapf(err, "could not create neo4j driver for %s", cfg.URI)
	}
	return &Executor{driver: driver, database: cfg.Database}, nil
}

// Verify checks connectivity to the database.
func (e *Executor) Verify(ctx context.Context) error {
	if err := e.driver.VerifyConnectivity(ctx); err != nil {
		return errors.Wrap(errors.ErrServiceUnavailable, err.Error())
	}
	return nil
}

// Run executes query with automatic session and transaction management.
func (e *Executor) Run(ctx context.Context, query string, params map[string]interface{}) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if e.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.database))
	}
	result, err := neo4j.ExecuteQuery(ctx, e.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "error executing neo4j query")
	}
	return result, nil
}

// Close releases the driver's connections.
func (e *Executor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}

// Source answers queries with visualization responses.
type Source struct {
	runner Runner
	logger *zap.SugaredLogger
}

// NewSource creates a source reading through runner.
func NewSource(runner Runner, log *zap.SugaredLogger) *Source {
	if log == nil {
		log = logger.Logger
	}
	return &Source{runner: runner, logger: log.Named("cypher")}
}

// Query runs query and converts its result. Failures are returned as query
// errors; connectivity failures carry the connection subcategory.
func (s *Source) Query(ctx context.Context, query string, params map[string]interface{}) (*viz.Response, error) {
	log := logger.FromContext(ctx, s.logger)
	start := time.Now()
	result, err := s.runner.Run(ctx, query, params)
	if err != nil {
		sub := grapherr.SubcategoryQueryExecution
		var connErr *neo4j.ConnectivityError
		if errors.As(err, &connErr) || errors.Is(err, errors.ErrServiceUnavailable) {
			sub = grapherr.SubcategoryQueryConnection
		}
		graphErr := grapherr.New(grapherr.CategoryQuery, err, "").
			WithSubcategory(sub).
			WithContext(logger.FieldQuery, query)
		log.Errorw("Query failed", graphErr.ToLogFields()...)
		return nil, graphErr
	}

	resp := FromEager(result, time.Since(start))
	log.Infow("Query executed",
		logger.FieldRows, len(resp.JSON),
		logger.FieldNodes, len(resp.Visualization.Nodes),
		logger.FieldLinks, len(resp.Visualization.Links),
		logger.FieldDurationMS, resp.Stats.Time)
	return resp, nil
}
