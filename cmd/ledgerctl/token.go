package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/pkg/config"
	"github.com/jhoicas/asset-ledger/pkg/jwt"
)

type tokenCmd struct {
	user    string
	role    string
	base    string
	minutes int
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "emite un JWT firmado con JWT_SECRET" }
func (*tokenCmd) Usage() string {
	return `ledgerctl token -user <id> -role <admin|base_commander|logistics_officer> [-base <id>] [-minutes N]

  Los roles distintos de admin requieren -base.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.user, "user", "", "ID del usuario (sub).")
	f.StringVar(&c.role, "role", entity.RoleAdmin, "Rol del usuario.")
	f.StringVar(&c.base, "base", "", "Base asignada.")
	f.IntVar(&c.minutes, "minutes", 0, "Vigencia en minutos; 0 usa JWT_EXPIRATION_MINUTES.")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.user == "" || !entity.IsKnownRole(c.role) {
		fmt.Fprintln(os.Stderr, "Error: -user y un -role válido son obligatorios.")
		return subcommands.ExitUsageError
	}
	if c.role != entity.RoleAdmin && c.base == "" {
		fmt.Fprintln(os.Stderr, "Error: -base es obligatorio para", c.role)
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	minutes := c.minutes
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	id := jwt.Identity{UserID: c.user, Role: c.role, BaseID: c.base}
	token, err := jwt.Sign(cfg.JWT.Secret, cfg.JWT.Issuer, id, time.Duration(minutes)*time.Minute)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}
