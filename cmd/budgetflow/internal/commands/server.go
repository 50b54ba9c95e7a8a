package commands

import (
	"context"
	"time"

	"budgetflow/internal/auth"
	"budgetflow/internal/config"
	"budgetflow/internal/ledger"
	"budgetflow/internal/logger"
	"budgetflow/internal/server"
	"budgetflow/internal/store"
	memorystore "budgetflow/internal/store/memory"
	postgresstore "budgetflow/internal/store/postgres"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

type ServerCmd struct {
	Config string `help:"path to YAML config file" default:"" env:"BUDGETFLOW_CONFIG"`
}

func (c *ServerCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	log.Logger = logger.Setup(cfg.Dev || globals.Debug)

	if err := cfg.Validate(); err != nil {
		return err
	}

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	verifier, err := auth.NewVerifier([]byte(cfg.Auth.Secret))
	if err != nil {
		return err
	}

	svc := ledger.NewService(st)
	api := server.New(svc, verifier)
	handler := api.Routes(log.Logger, cfg.CORS.AllowedOrigins)

	log.Info().
		Str("version", globals.Version).
		Str("listen", cfg.Listen).
		Msg("Starting budget ledger server")

	return configureHTTPServer(cfg.Listen, handler).ListenAndServe()
}

// openStore selects the storage backend: PostgreSQL when a connection
// string is configured, otherwise the in-memory store. The initial
// database connection is retried with exponential backoff so the server
// survives the database coming up after it.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.ConnString == "" {
		log.Warn().Msg("No database configured, using in-memory store (data is lost on restart)")
		return memorystore.NewStore(), func() {}, nil
	}

	pg, err := backoff.Retry(ctx, func() (*postgresstore.Store, error) {
		return postgresstore.NewStore(ctx, &postgresstore.Config{
			Pool: postgresstore.PoolConfig{
				ConnString:      cfg.Database.ConnString,
				MaxConns:        cfg.Database.MaxConns,
				MinConns:        cfg.Database.MinConns,
				MaxConnLifetime: cfg.Database.MaxConnLifetime,
				MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			},
			AutoMigrate: cfg.Database.AutoMigrate,
		})
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(5),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		return nil, nil, err
	}

	return pg, pg.Close, nil
}
