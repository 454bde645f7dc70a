package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"recut/internal/batch"
	"recut/internal/catalog"
	"recut/internal/config"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var forceSource string
	var ignore []string

	cmd := &cobra.Command{
		Use:   "import <directory>",
		Short: "Catalog every audio file under a collection directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store, cfg *config.Config, logger *slog.Logger) error {
				importer := batch.NewImporter(store, logger)
				stats, err := importer.ImportAll(cmd.Context(), args[0], ignore, forceSource)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scanned %d files: %d imported, %d duplicates, %d failures\n",
					stats.Scanned, stats.Imported, stats.Duplicates, stats.Failures)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&forceSource, "source", "", "Override the source recorded for every imported file")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Directory names to skip while walking")
	return cmd
}
