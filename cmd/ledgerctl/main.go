// Command ledgerctl herramientas de operación del libro mayor: migraciones, datos de prueba,
// conciliaciones por consola y emisión de tokens.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "ledgerctl")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&migrateCmd{}, "")
	commander.Register(&seedCmd{}, "")
	commander.Register(&statsCmd{}, "")
	commander.Register(&tokenCmd{}, "")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
