package llm

import "github.com/joseph-ayodele/contract-analyzer/constants"

// RawKey holds the response text when JSON was requested but could not be parsed.
const RawKey = "_raw"

// Result is the outcome of a schema-driven call. Exactly one of Value or Raw
// is meaningful, as told by Mode. Approximation only happens on the summary
// path, where Summary.Mode carries it.
type Result struct {
	Mode  constants.ParseMode
	Value any    // Parsed
	Raw   string // RawText
	// SchemaErr is set when the parsed value does not satisfy the requested schema.
	SchemaErr error
}

func Parsed(v any) Result { return Result{Mode: constants.ParseModeParsed, Value: v} }

func RawText(s string) Result { return Result{Mode: constants.ParseModeRaw, Raw: s} }

// Object always returns something navigable: the parsed value, or
// {"_raw": text} for unparseable responses.
func (r Result) Object() any {
	if r.Mode == constants.ParseModeRaw {
		return map[string]any{RawKey: r.Raw}
	}
	return r.Value
}

type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Summary is the legal-summary call's output after parsing or approximation.
type Summary struct {
	RiskLevel    constants.RiskLevel `json:"riskLevel"`
	RiskSummary  string              `json:"riskSummary"`
	ContractType string              `json:"contractType,omitempty"`
	Parties      []string            `json:"parties"`
	HighRisks    []string            `json:"highRisks"`
	MediumRisks  []string            `json:"mediumRisks"`
	LowRisks     []string            `json:"lowRisks"`
	Dates        DateRange           `json:"dates"`
	PaymentTerms string              `json:"paymentTerms,omitempty"`
	GoverningLaw string              `json:"governingLaw,omitempty"`

	Mode constants.ParseMode `json:"-"`
	// SchemaErr is set when a parsed response does not satisfy the summary
	// schema; the coerced fields are still usable.
	SchemaErr error `json:"-"`
}

// DefaultSummary is the degraded result used when the AI step fails.
func DefaultSummary(lang constants.Language) Summary {
	msg := "Automated AI review is unavailable for this document. " +
		"The risk level shown is a cautious default; rely on the rule-based findings and review the contract manually."
	if lang == constants.LanguageArabic {
		msg = "تعذّر إجراء المراجعة الآلية بالذكاء الاصطناعي لهذا المستند. " +
			"مستوى المخاطر المعروض تقدير احترازي افتراضي؛ اعتمد على نتائج الفحص الآلي وراجع العقد يدوياً."
	}
	return Summary{
		RiskLevel:   constants.RiskMedium,
		RiskSummary: msg,
		Parties:     []string{},
		HighRisks:   []string{},
		MediumRisks: []string{},
		LowRisks:    []string{},
		Mode:        constants.ParseModeNone,
	}
}
