package main

import (
	"context"

	"budgetflow/cmd/budgetflow/internal/commands"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Server  commands.ServerCmd  `cmd:"" help:"Start the budget ledger API server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Run database migrations"`
		Token   commands.TokenCmd   `cmd:"" help:"Mint a caller bearer token"`
		Debug   bool                `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
