package heuristics

import (
	"log/slog"
	"strings"
)

// Structurer turns raw contract text into a Result using only ordered
// pattern tables. It never fails and has no side effects besides logging.
type Structurer struct {
	logger *slog.Logger
}

func NewStructurer(logger *slog.Logger) *Structurer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Structurer{logger: logger}
}

func (s *Structurer) Structure(text string) Result {
	res := Result{
		Parties:     []Party{},
		RiskPhrases: []RiskPhrase{},
		Sources:     map[string]Provenance{},
	}
	if strings.TrimSpace(text) == "" {
		res.ContractType, _ = ContractTypeOf("")
		res.RiskLevel = ClassifyRisk(0, 0)
		s.logger.Debug("heuristics.empty_text")
		return res
	}

	var src Provenance
	res.ContractType, src = ContractTypeOf(text)
	res.Sources["contractType"] = src

	res.Parties = ExtractParties(text)

	if v, src, ok := ExtractEffectiveDate(text); ok {
		res.EffectiveDate = v
		res.Sources["effectiveDate"] = src
	}
	if v, src, ok := ExtractEndDate(text); ok {
		res.EndDate = v
		res.Sources["endDate"] = src
	}
	if v, src, ok := ExtractTermDuration(text); ok {
		res.TermDuration = v
		res.Sources["termDuration"] = src
	}
	if v, src, ok := ExtractGoverningLaw(text); ok {
		res.GoverningLaw = v
		res.Sources["governingLaw"] = src
	}

	res.RiskPhrases = ExtractRiskPhrases(text)
	res.HighCount, res.MediumCount = CountSeverities(res.RiskPhrases)
	res.RiskLevel = ClassifyRisk(res.HighCount, res.MediumCount)

	res.Payment = ExtractPayment(text)

	s.logger.Debug("heuristics.structured",
		"contract_type", res.ContractType,
		"parties", len(res.Parties),
		"risk_phrases", len(res.RiskPhrases),
		"risk_level", res.RiskLevel,
	)
	return res
}
