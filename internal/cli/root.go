// Package cli implements the queryc command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // project config path, empty means auto-discover
	Model    string // entity model path, overrides config
	Entities []string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the queryc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "queryc",
		Short: "queryc - predicate pushdown compiler",
		Long: `A compiler that rewrites data-access predicates into runtime query
primitives, splitting each predicate into a pushable part the backing
store can evaluate and a residual part that stays in application code.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "project config file (default .queryc.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.Model, "model", "", "entity model file (CUE)")
	cmd.PersistentFlags().StringSliceVar(&opts.Entities, "entities", nil, "entity type names, in addition to the model")

	cmd.AddCommand(NewRewriteCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
