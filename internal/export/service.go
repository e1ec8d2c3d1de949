package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/contract-analyzer/internal/analysis"
)

const (
	SheetSummary   = "Summary"
	SheetRisks     = "Risks"
	SheetContracts = "Contracts"

	maxCellText = 500
)

// Exporter renders analyses as XLSX workbooks. Where the bytes go is the caller's business.
type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// RenderXLSX returns a two-sheet workbook: Summary (field/value) and Risks
// (one row per heuristic phrase or AI risk bullet).
func (e *Exporter) RenderXLSX(a *analysis.ContractAnalysis) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("xlsx: nil analysis")
	}
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetRisks); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	row := 1
	write := func(sheet string, values ...any) error {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := write(SheetSummary, "Field", "Value"); err != nil {
		return nil, err
	}
	for _, kv := range summaryRows(a) {
		if err := write(SheetSummary, kv[0], truncate(kv[1], maxCellText)); err != nil {
			return nil, err
		}
	}
	_ = f.SetCellStyle(SheetSummary, "A1", "B1", bold)
	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetSummary, "B", "B", 90)

	row = 1
	if err := write(SheetRisks, "Source", "Severity", "Text"); err != nil {
		return nil, err
	}
	for _, p := range a.RiskPhrases {
		if err := write(SheetRisks, "heuristic", string(p.Severity), truncate(p.Text, maxCellText)); err != nil {
			return nil, err
		}
	}
	for _, group := range []struct {
		severity string
		items    []string
	}{
		{"high", a.AIRiskLists.High},
		{"medium", a.AIRiskLists.Medium},
		{"low", a.AIRiskLists.Low},
	} {
		for _, item := range group.items {
			if err := write(SheetRisks, "ai", group.severity, truncate(item, maxCellText)); err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetCellStyle(SheetRisks, "A1", "C1", bold)
	_ = f.SetColWidth(SheetRisks, "A", "B", 12)
	_ = f.SetColWidth(SheetRisks, "C", "C", 100)

	idx, _ := f.GetSheetIndex(SheetSummary)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	e.logger.Info("export.xlsx.ok",
		"req_id", a.RequestID,
		"risk_rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// BatchRow is one document in a batch workbook; Err is set when analysis failed.
type BatchRow struct {
	Source   string
	Analysis *analysis.ContractAnalysis
	Err      error
}

// RenderBatchXLSX returns a single-sheet workbook with one row per document.
func (e *Exporter) RenderBatchXLSX(rows []BatchRow) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			e.logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", SheetContracts); err != nil {
		return nil, err
	}

	headers := []any{"Source", "Status", "Contract Type", "Parties", "Risk Level", "AI Risk Level", "Amount", "Currency", "Governing Law", "AI Summary", "Error"}
	if err := f.SetSheetRow(SheetContracts, "A1", &headers); err != nil {
		return nil, err
	}

	for i, r := range rows {
		values := []any{r.Source}
		if r.Err != nil || r.Analysis == nil {
			msg := "no result"
			if r.Err != nil {
				msg = r.Err.Error()
			}
			values = append(values, "failed", "", "", "", "", "", "", "", "", truncate(msg, maxCellText))
		} else {
			a := r.Analysis
			values = append(values,
				string(a.Status),
				string(a.ContractType),
				partyNames(a),
				string(a.RiskLevel),
				string(a.AIRiskLevel),
				a.PaymentDetails.Amount,
				a.PaymentDetails.Currency,
				a.GoverningLaw,
				truncate(a.AISummary, maxCellText),
				a.AIError,
			)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetContracts, cell, &values); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(SheetContracts, "A", "A", 40)
	_ = f.SetColWidth(SheetContracts, "B", "I", 16)
	_ = f.SetColWidth(SheetContracts, "J", "K", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	e.logger.Info("export.batch_xlsx.ok", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func summaryRows(a *analysis.ContractAnalysis) [][2]string {
	return [][2]string{
		{"Request ID", a.RequestID},
		{"Status", string(a.Status)},
		{"Analyzed At", a.AnalyzedAt.Format(time.RFC3339)},
		{"Source Format", string(a.SourceFormat)},
		{"Language", string(a.Language)},
		{"Contract Type", string(a.ContractType)},
		{"Parties", partyNames(a)},
		{"Effective Date", a.EffectiveDate},
		{"Term", a.TermDuration},
		{"Start Date", a.Dates.Start},
		{"End Date", a.Dates.End},
		{"Governing Law", a.GoverningLaw},
		{"Risk Level", string(a.RiskLevel)},
		{"High / Medium Phrases", fmt.Sprintf("%d / %d", a.RiskCounts.High, a.RiskCounts.Medium)},
		{"AI Risk Level", string(a.AIRiskLevel)},
		{"AI Parse Mode", string(a.AIParseMode)},
		{"AI Summary", a.AISummary},
		{"Amount", a.PaymentDetails.Amount},
		{"Currency", a.PaymentDetails.Currency},
		{"Payment Terms", a.PaymentDetails.Terms},
		{"Payment Schedule", a.PaymentDetails.Schedule},
		{"Pages", fmt.Sprintf("%d", a.Extraction.Pages)},
		{"Extraction Warnings", strings.Join(a.Extraction.Warnings, "; ")},
	}
}

func partyNames(a *analysis.ContractAnalysis) string {
	names := make([]string, 0, len(a.Parties))
	for _, p := range a.Parties {
		names = append(names, p.Name)
	}
	return strings.Join(names, "; ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
