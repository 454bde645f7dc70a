package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"recut/internal/batch"
	"recut/internal/catalog"
	"recut/internal/config"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var title string
	var artist string
	var file string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete cataloged songs by title, optionally scoped to an artist",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := removalEntries(title, artist, file)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return errors.New("nothing to remove: pass --title or --file")
			}

			return ctx.withStore(func(store *catalog.Store, cfg *config.Config, logger *slog.Logger) error {
				remover := batch.NewRemover(store, logger)
				results, err := remover.RemoveAll(cmd.Context(), entries)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(results))
				for _, res := range results {
					rows = append(rows, []string{
						res.Removal.Title,
						res.Removal.Artist,
						removalStatus(res),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Title", "Artist", "Result"},
					rows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title of the song to remove")
	cmd.Flags().StringVar(&artist, "artist", "", "Artist owning the title (required when the title is ambiguous)")
	cmd.Flags().StringVar(&file, "file", "", "File listing removals, one `title[, artist]` per line")
	return cmd
}

func removalEntries(title, artist, file string) ([]batch.Removal, error) {
	if file != "" {
		if title != "" || artist != "" {
			return nil, errors.New("--file cannot be combined with --title/--artist")
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open removal list: %w", err)
		}
		defer f.Close()
		return batch.ParseRemovals(f)
	}
	if title == "" {
		return nil, nil
	}
	return []batch.Removal{{Title: title, Artist: artist}}, nil
}

func removalStatus(res batch.RemovalResult) string {
	switch {
	case res.Err != nil:
		return "error: " + res.Err.Error()
	case res.Removed:
		return "removed"
	default:
		return "not found"
	}
}
