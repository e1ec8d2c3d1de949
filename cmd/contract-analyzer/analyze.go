package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one PDF or DOCX contract and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			res, err := a.service.AnalyzeFile(cmd.Context(), args[0], a.lang)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}

			if xlsxPath != "" {
				bs, err := a.exporter.RenderXLSX(res)
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, bs, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", xlsxPath, err)
				}
				a.logger.Info("export.xlsx.written", "path", xlsxPath, "bytes", len(bs))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX report to this path")
	return cmd
}
