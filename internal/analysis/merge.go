package analysis

import (
	"maps"
	"strings"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/heuristics"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

// merge lays AI fields next to heuristic ones. Heuristic structured fields are
// never overwritten; AI values only fill the shared dates and governing law,
// with heuristic values used where the AI left them blank.
func merge(a *ContractAnalysis, h heuristics.Result, s llm.Summary) {
	a.ContractType = h.ContractType
	a.Parties = h.Parties
	a.EffectiveDate = h.EffectiveDate
	a.TermDuration = h.TermDuration
	a.RiskLevel = h.RiskLevel
	a.RiskCounts = RiskCounts{High: h.HighCount, Medium: h.MediumCount}
	a.RiskPhrases = h.RiskPhrases
	a.PaymentDetails = h.Payment
	a.Sources = maps.Clone(h.Sources)

	a.AISummary = s.RiskSummary
	a.AIRiskLevel = s.RiskLevel
	a.AIRiskLists = RiskLists{
		High:   nonNil(s.HighRisks),
		Medium: nonNil(s.MediumRisks),
		Low:    nonNil(s.LowRisks),
	}
	a.AIContractType = canonicalContractType(s.ContractType)
	a.AIParties = s.Parties
	a.AIPaymentTerms = s.PaymentTerms
	a.AIParseMode = s.Mode
	if s.SchemaErr != nil {
		a.AISchemaError = s.SchemaErr.Error()
	}

	a.Dates = s.Dates
	if a.Dates.Start == "" {
		a.Dates.Start = h.EffectiveDate
	}
	if a.Dates.End == "" {
		a.Dates.End = h.EndDate
	}

	a.GoverningLaw = s.GoverningLaw
	if a.GoverningLaw == "" {
		a.GoverningLaw = h.GoverningLaw
	} else {
		delete(a.Sources, "governingLaw")
	}
}

// canonicalContractType maps the model's free-form label onto a ContractType;
// unknown labels become "other", an absent label stays empty.
func canonicalContractType(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	ct, _ := constants.Canonicalize(label)
	return string(ct)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
