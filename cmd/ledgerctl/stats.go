package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

type statsCmd struct {
	base      string
	equipment string
	from      string
	to        string
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "imprime la conciliación de un alcance como JSON" }
func (*statsCmd) Usage() string {
	return `ledgerctl stats [-base <id>] [-equipment <id>] [-from YYYY-MM-DD] [-to YYYY-MM-DD]

  Calcula apertura, movimientos y cierre con permisos de administrador.
  Sin -to el rango termina hoy.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "ID de la base; vacío para todas.")
	f.StringVar(&c.equipment, "equipment", "", "ID del tipo de equipo; vacío para todos.")
	f.StringVar(&c.from, "from", "", "Inicio inclusivo del rango.")
	f.StringVar(&c.to, "to", "", "Fin inclusivo del rango.")
}

func (c *statsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := c.run(ctx, a, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *statsCmd) run(ctx context.Context, a *app, w io.Writer) error {
	out, err := a.stats.GetStats(ctx, operator, dto.StatsRequest{
		BaseID:          c.base,
		EquipmentTypeID: c.equipment,
		StartDate:       c.from,
		EndDate:         c.to,
	})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// operator identidad con la que actúa la consola.
var operator = entity.Caller{UserID: "ledgerctl", Role: entity.RoleAdmin}
