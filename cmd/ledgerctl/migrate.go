package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "aplica el esquema pendiente en el almacén configurado" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Aplica las migraciones SQL pendientes (PostgreSQL) o crea el esquema (SQLite)
  según STORAGE_DRIVER.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	applied, err := a.backend.Migrate(ctx)
	if err != nil {
		a.log.Error().Err(err).Strs("applied", applied).Msg("migraciones")
		return subcommands.ExitFailure
	}
	if len(applied) == 0 {
		fmt.Println("esquema al día")
		return subcommands.ExitSuccess
	}
	for _, name := range applied {
		fmt.Println("aplicada:", name)
	}
	return subcommands.ExitSuccess
}
