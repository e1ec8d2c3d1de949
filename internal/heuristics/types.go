package heuristics

import "github.com/joseph-ayodele/contract-analyzer/constants"

// Provenance names the rule that produced a value and its position in the
// ordered rule table it came from.
type Provenance struct {
	Rule  string `json:"rule"`
	Index int    `json:"index"`
}

type Party struct {
	Name          string              `json:"name"`
	Role          constants.PartyRole `json:"role"`
	CompanySuffix string              `json:"companySuffix,omitempty"`
	Source        Provenance          `json:"source"`
}

// RiskPhrase is a keyword hit with its surrounding context.
type RiskPhrase struct {
	Text     string             `json:"text"` // Severity: "context"
	Severity constants.Severity `json:"severity"`
	Keyword  string             `json:"keyword"`
}

// PaymentDetails fields are derived independently and never cross-checked.
type PaymentDetails struct {
	Amount   string                `json:"amount,omitempty"`
	Currency string                `json:"currency,omitempty"`
	Terms    string                `json:"terms,omitempty"`
	Schedule string                `json:"schedule,omitempty"`
	Sources  map[string]Provenance `json:"sources,omitempty"`
}

// Result is everything the structurer derives from one document's text.
type Result struct {
	ContractType  constants.ContractType `json:"contractType"`
	Parties       []Party                `json:"parties"`
	EffectiveDate string                 `json:"effectiveDate,omitempty"`
	EndDate       string                 `json:"endDate,omitempty"`
	TermDuration  string                 `json:"termDuration,omitempty"`
	GoverningLaw  string                 `json:"governingLaw,omitempty"`
	RiskPhrases   []RiskPhrase           `json:"riskPhrases"`
	HighCount     int                    `json:"highCount"`
	MediumCount   int                    `json:"mediumCount"`
	RiskLevel     constants.RiskLevel    `json:"riskLevel"`
	Payment       PaymentDetails         `json:"paymentDetails"`
	Sources       map[string]Provenance  `json:"sources,omitempty"`
}
