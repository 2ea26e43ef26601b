// Package cli es el host offline: corre init/handle/query contra un archivo
// sqlite, una llamada por invocación.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// RootOptions son los flags globales.
type RootOptions struct {
	DBPath     string
	ConfigPath string
	Verbose    bool
}

// NewRootCommand arma el comando raíz del CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "engine",
		Short: "pet-market-engine offline host",
		Long:  "Runs Market and Pet contract calls against a local sqlite state file.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.DBPath == "" {
				return fmt.Errorf("--db is required")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "data/pet_market.db", "sqlite state file")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "config.yaml", "config file (contract addresses)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every call to stderr")

	cmd.AddCommand(NewCallCommand(opts, entryInit))
	cmd.AddCommand(NewCallCommand(opts, entryHandle))
	cmd.AddCommand(NewCallCommand(opts, entryQuery))

	return cmd
}

// Main ejecuta el root command y devuelve el código de salida.
func Main(args []string, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
