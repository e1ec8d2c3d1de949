package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/async"
	"github.com/joseph-ayodele/contract-analyzer/internal/ingest"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		initialScan bool
		debounce    time.Duration
		writeJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Analyze contracts as they appear in the given directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       args,
				InitialScan: initialScan,
				Debounce:    debounce,
				Logger:      a.logger,
			})
			if err != nil {
				return err
			}

			pool := async.NewPool(a.service, a.logger,
				async.WithWorkers(a.cfg.Batch.Workers),
				async.WithJobTimeout(a.cfg.Batch.AnalysisTimeout),
			)
			enc := json.NewEncoder(cmd.OutOrStdout())
			done := make(chan struct{})
			go func() {
				defer close(done)
				for r := range pool.Results() {
					line := batchLine{Source: r.Job.Path, Analysis: r.Analysis}
					if r.Err != nil {
						line.Error = r.Err.Error()
					}
					if err := enc.Encode(line); err != nil {
						a.logger.Error("watch.encode.failed", "path", r.Job.Path, "error", err)
					}
					if r.Err != nil || !writeJSON {
						continue
					}
					dst := r.Job.Path + ".analysis.json"
					bs, err := json.MarshalIndent(r.Analysis, "", "  ")
					if err == nil {
						err = os.WriteFile(dst, bs, 0o644)
					}
					if err != nil {
						a.logger.Error("watch.write.failed", "path", dst, "error", err)
					}
				}
			}()

			forwardEvents(ctx, events, errs, pool, a.lang, a.logger)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Batch.AnalysisTimeout)
			defer cancel()
			pool.Shutdown(shutdownCtx)
			<-done
			return nil
		},
	}
	cmd.Flags().BoolVar(&initialScan, "initial-scan", true, "analyze files already present at startup")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "coalesce rapid writes to the same file")
	cmd.Flags().BoolVar(&writeJSON, "write-json", false, "write <file>.analysis.json next to each analyzed contract")
	return cmd
}

// forwardEvents enqueues watched paths until events closes or ctx is done.
func forwardEvents(ctx context.Context, events <-chan string, errs <-chan error, q async.Queue, lang constants.Language, logger *slog.Logger) {
	for {
		select {
		case p, ok := <-events:
			if !ok {
				return
			}
			if err := q.Enqueue(ctx, async.Job{ID: p, Path: p, Language: lang}); err != nil {
				logger.Warn("watch.enqueue.failed", "path", p, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("watch.error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}
