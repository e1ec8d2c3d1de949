package constants

// AnalysisStatus tells callers whether the AI step contributed to a result.
type AnalysisStatus string

// Stable values (safe to store or compare as strings).
const (
	AnalysisStatusComplete AnalysisStatus = "complete" // AI call succeeded (any parse mode)
	AnalysisStatusDegraded AnalysisStatus = "degraded" // AI call failed; default summary used
)

// ParseMode records how an AI response was turned into structured data.
type ParseMode string

const (
	ParseModeParsed       ParseMode = "parsed"       // valid JSON object
	ParseModeRaw          ParseMode = "raw"          // JSON requested but unparseable; text kept as _raw
	ParseModeApproximated ParseMode = "approximated" // fields recovered from free-text labels
	ParseModeNone         ParseMode = "none"         // no AI response at all
)
