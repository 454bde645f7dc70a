package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"recut/internal/batch"
	"recut/internal/collection"
	"recut/internal/config"
	"recut/internal/deps"
	"recut/internal/logging"
	"recut/internal/musicbrainz"
	"recut/internal/resolver"
	"recut/internal/trim"
)

func newTrimCommand(ctx *commandContext) *cobra.Command {
	var ignore []string
	var workers int

	cmd := &cobra.Command{
		Use:   "trim <directory>",
		Short: "Reconcile every audio file under a directory against its canonical length",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if err := deps.Verify(deps.Requirements(cfg.Trim.FFmpegBinary)); err != nil {
				return err
			}
			engine, err := newTrimEngine(cfg, logger)
			if err != nil {
				return err
			}

			paths, err := collection.Collect(args[0], ignore)
			if err != nil {
				return err
			}

			poolWorkers := workers
			if poolWorkers <= 0 {
				poolWorkers = cfg.Trim.Workers
			}
			results := batch.RunPool(cmd.Context(), poolWorkers, paths,
				func(runCtx context.Context, path string) (trim.Result, error) {
					return engine.Process(runCtx, path)
				})

			counts := map[trim.Outcome]int{}
			failures := 0
			for _, res := range results {
				if res.Err != nil {
					failures++
					logger.Error("reconcile failed",
						logging.String(logging.FieldFile, filepath.Base(paths[res.Index])),
						logging.Error(res.Err))
					continue
				}
				counts[res.Value.Outcome]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d files: %d trimmed, %d correct, %d marked unchecked, %d skipped, %d without metadata, %d failures\n",
				len(paths),
				counts[trim.OutcomeTrimmed],
				counts[trim.OutcomeAlreadyCorrect],
				counts[trim.OutcomeMarkedUnchecked],
				counts[trim.OutcomeSkippedUnchecked],
				counts[trim.OutcomeNoMetadata],
				failures)
			if failures > 0 {
				return fmt.Errorf("%d files failed to reconcile", failures)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Directory names to skip while walking")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent workers (default from config, then one per CPU)")
	return cmd
}

func newTrimEngine(cfg *config.Config, logger *slog.Logger) (*trim.Engine, error) {
	client, err := musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent)
	if err != nil {
		return nil, err
	}
	res, err := resolver.New(client, logger)
	if err != nil {
		return nil, err
	}
	return trim.New(trim.Options{
		Resolver:        res,
		Cutter:          trim.FFmpegCutter{Binary: cfg.Trim.FFmpegBinary},
		UncheckedPrefix: cfg.Trim.UncheckedPrefix,
		Logger:          logger,
	})
}
