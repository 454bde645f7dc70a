package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recut/internal/catalog"
	"recut/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the song catalog",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every cataloged song",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store, cfg *config.Config, logger *slog.Logger) error {
				songs, err := store.Songs(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(songs) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(songs))
				for _, song := range songs {
					rows = append(rows, []string{
						strconv.FormatInt(song.ID, 10),
						song.Artist,
						song.Title,
						song.Album,
						song.Source,
					})
				}

				header := fmt.Sprintf("Catalog: %d songs (%s)", len(songs), cfg.Paths.Catalog)
				if shouldColorize(os.Stdout) {
					header = ansiBlue + header + ansiReset
				}
				fmt.Fprintln(out, header)
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Artist", "Title", "Album", "Source"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}
