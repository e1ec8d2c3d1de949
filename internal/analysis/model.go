package analysis

import (
	"time"

	"github.com/joseph-ayodele/contract-analyzer/constants"
	"github.com/joseph-ayodele/contract-analyzer/internal/heuristics"
	"github.com/joseph-ayodele/contract-analyzer/internal/llm"
)

// RiskLists are the AI-sourced risk bullets, grouped by severity.
type RiskLists struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Low    []string `json:"low"`
}

// RiskCounts are the inputs to the heuristic risk table.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
}

type ExtractionInfo struct {
	Pages    int      `json:"pages"`
	Method   string   `json:"method"`
	Warnings []string `json:"warnings,omitempty"`
	Chars    int      `json:"chars"`
}

// ContractAnalysis is the pipeline's output. It is built once per request
// and never mutated after being returned.
//
// RiskLevel always comes from the heuristic table over RiskPhrases. The AI's
// own verdict is kept separately in AIRiskLevel.
type ContractAnalysis struct {
	RequestID string `json:"requestId"`

	// heuristic
	ContractType   constants.ContractType           `json:"contractType"`
	Parties        []heuristics.Party               `json:"parties"`
	EffectiveDate  string                           `json:"effectiveDate,omitempty"`
	TermDuration   string                           `json:"termDuration,omitempty"`
	RiskLevel      constants.RiskLevel              `json:"riskLevel"`
	RiskCounts     RiskCounts                       `json:"riskCounts"`
	RiskPhrases    []heuristics.RiskPhrase          `json:"riskPhrases"`
	PaymentDetails heuristics.PaymentDetails        `json:"paymentDetails"`
	Sources        map[string]heuristics.Provenance `json:"sources,omitempty"`

	// AI
	AISummary      string              `json:"aiSummary,omitempty"`
	AIRiskLevel    constants.RiskLevel `json:"aiRiskLevel,omitempty"`
	AIRiskLists    RiskLists           `json:"aiRiskLists"`
	AIContractType string              `json:"aiContractType,omitempty"`
	AIParties      []string            `json:"aiParties,omitempty"`
	AIPaymentTerms string              `json:"aiPaymentTerms,omitempty"`
	AIParseMode    constants.ParseMode `json:"aiParseMode"`
	AISchemaError  string              `json:"aiSchemaError,omitempty"`
	AIError        string              `json:"aiError,omitempty"`

	// merged
	Dates        llm.DateRange `json:"dates"`
	GoverningLaw string        `json:"governingLaw,omitempty"`

	Status       constants.AnalysisStatus `json:"status"`
	Language     constants.Language       `json:"language"`
	SourceFormat constants.Format         `json:"sourceFormat"`
	AnalyzedAt   time.Time                `json:"analyzedAt"`
	Extraction   ExtractionInfo           `json:"extraction"`
}

// Degraded reports whether the AI step failed and defaults were used.
func (a *ContractAnalysis) Degraded() bool {
	return a.Status == constants.AnalysisStatusDegraded
}
