package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
	"github.com/joseph-ayodele/contract-analyzer/internal/async"
	"github.com/joseph-ayodele/contract-analyzer/internal/export"
	"github.com/joseph-ayodele/contract-analyzer/internal/ingest"
)

// batchLine is one JSON line of batch output.
type batchLine struct {
	Source   string                     `json:"source"`
	Analysis *analysis.ContractAnalysis `json:"analysis,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

func newBatchCmd(root *rootOptions) *cobra.Command {
	var (
		out        string
		workers    int
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Analyze every PDF/DOCX under a directory into one XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			dir := args[0]
			if out == "" {
				out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "contracts.xlsx")
			}
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}

			paths, stats, err := ingest.ScanDir(dir, skipHidden)
			if err != nil {
				return err
			}
			a.logger.Info("batch.scan.done", "dir", dir, "matched", stats.Matched, "failed", stats.Failed)
			if len(paths) == 0 {
				return fmt.Errorf("no PDF or DOCX files found under %s", dir)
			}

			jobs := make([]async.Job, len(paths))
			for i, p := range paths {
				jobs[i] = async.Job{ID: p, Path: p, Language: a.lang}
			}
			results := async.RunBatch(cmd.Context(), a.service, jobs, a.logger,
				async.WithWorkers(workers),
				async.WithJobTimeout(a.cfg.Batch.AnalysisTimeout),
			)

			enc := json.NewEncoder(cmd.OutOrStdout())
			rows := make([]export.BatchRow, len(results))
			var failed, degraded int
			for i, r := range results {
				rows[i] = export.BatchRow{Source: r.Job.Path, Analysis: r.Analysis, Err: r.Err}
				line := batchLine{Source: r.Job.Path, Analysis: r.Analysis}
				if r.Err != nil {
					line.Error = r.Err.Error()
				}
				if err := enc.Encode(line); err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
				switch {
				case r.Err != nil:
					failed++
				case r.Analysis.Degraded():
					degraded++
				}
			}

			bs, err := a.exporter.RenderBatchXLSX(rows)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, bs, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("batch.done", "files", len(paths), "failed", failed, "degraded", degraded, "out", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output XLSX path (default: contracts.xlsx next to <dir>)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent analyses (default: WORKERS env)")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dotfiles and Office lock files")
	return cmd
}
