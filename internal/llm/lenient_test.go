package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/contract-analyzer/constants"
)

func TestFallbackRiskLevel(t *testing.T) {
	tests := []struct {
		high, medium int
		want         constants.RiskLevel
	}{
		{0, 0, constants.RiskLow},
		{2, 0, constants.RiskLow},
		{3, 0, constants.RiskHigh},
		{0, 3, constants.RiskLow},
		{0, 4, constants.RiskMedium},
		{2, 4, constants.RiskMedium},
		// differs from the heuristic table, which calls (1, 0) medium
		{1, 0, constants.RiskLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackRiskLevel(tt.high, tt.medium), "high=%d medium=%d", tt.high, tt.medium)
	}
}

func TestApproximateSummary(t *testing.T) {
	text := `Overall this contract leans heavily towards the supplier.

**High Risks:**
- Automatic renewal without notice
- Penalty of 10% per day of delay

- **High risk:** unlimited liability for the client
Medium risk: confidentiality survives for 5 years
Moderate risk - exclusive jurisdiction abroad
Low risk: standard notice clause
Risk level: high
Governing law: Kingdom of Saudi Arabia
Payment terms: within 30 days of invoice`

	s := ApproximateSummary(text, constants.LanguageEnglish)

	assert.Equal(t, constants.ParseModeApproximated, s.Mode)
	assert.Equal(t, []string{
		"Automatic renewal without notice",
		"Penalty of 10% per day of delay",
		"unlimited liability for the client",
	}, s.HighRisks)
	assert.Equal(t, []string{"confidentiality survives for 5 years", "exclusive jurisdiction abroad"}, s.MediumRisks)
	assert.Equal(t, []string{"standard notice clause"}, s.LowRisks)
	assert.Equal(t, constants.RiskHigh, s.RiskLevel)
	assert.Equal(t, "Overall this contract leans heavily towards the supplier.", s.RiskSummary)
	assert.Equal(t, "Kingdom of Saudi Arabia", s.GoverningLaw)
	assert.Equal(t, "within 30 days of invoice", s.PaymentTerms)
}

func TestApproximateSummary_ArabicLabels(t *testing.T) {
	text := "الملخص: العقد متوازن إلى حد كبير\nمخاطر متوسطة: مدة السرية طويلة\nمخاطر منخفضة: بند الإشعار"
	s := ApproximateSummary(text, constants.LanguageArabic)

	assert.Equal(t, "العقد متوازن إلى حد كبير", s.RiskSummary)
	assert.Equal(t, []string{"مدة السرية طويلة"}, s.MediumRisks)
	assert.Equal(t, []string{"بند الإشعار"}, s.LowRisks)
	assert.Equal(t, constants.RiskLow, s.RiskLevel)
}

func TestApproximateSummary_EmptyText(t *testing.T) {
	s := ApproximateSummary("", constants.LanguageEnglish)
	assert.Equal(t, constants.RiskLow, s.RiskLevel)
	assert.NotEmpty(t, s.RiskSummary)
	assert.Empty(t, s.HighRisks)
}

func TestParseSummary_BrokenJSONFallsBack(t *testing.T) {
	s := ParseSummary("{riskLevel: high,\nHigh risk: unlimited liability}", constants.LanguageEnglish)
	assert.Equal(t, constants.ParseModeApproximated, s.Mode)
	assert.Equal(t, []string{"unlimited liability}"}, s.HighRisks)
}

func TestParseSummary_MissingRiskLevelUsesFallbackTable(t *testing.T) {
	s := ParseSummary(`{"highRisks":["a","b","c"]}`, constants.LanguageEnglish)
	assert.Equal(t, constants.ParseModeParsed, s.Mode)
	assert.Equal(t, constants.RiskHigh, s.RiskLevel)
	assert.NotEmpty(t, s.RiskSummary)
}

func TestDefaultSummary(t *testing.T) {
	for _, lang := range []constants.Language{constants.LanguageEnglish, constants.LanguageArabic} {
		s := DefaultSummary(lang)
		assert.Equal(t, constants.RiskMedium, s.RiskLevel)
		assert.NotEmpty(t, s.RiskSummary)
		assert.Empty(t, s.HighRisks)
		assert.Empty(t, s.MediumRisks)
		assert.Empty(t, s.LowRisks)
		assert.Equal(t, constants.ParseModeNone, s.Mode)
	}
}
