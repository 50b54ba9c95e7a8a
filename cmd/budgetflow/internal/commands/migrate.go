package commands

import (
	"context"
	"errors"

	"budgetflow/internal/config"
	postgresstore "budgetflow/internal/store/postgres"

	"github.com/rs/zerolog/log"
)

type MigrateCmd struct {
	Config string `help:"path to YAML config file" default:"" env:"BUDGETFLOW_CONFIG"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	if cfg.Database.ConnString == "" {
		return errors.New("no database configured (set database.conn_string or BUDGETFLOW_DATABASE_URL)")
	}

	pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
		ConnString: cfg.Database.ConnString,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgresstore.RunMigrations(ctx, pool); err != nil {
		return err
	}

	log.Info().Msg("Migrations complete")

	return nil
}
