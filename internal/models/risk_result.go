package models

// Severity is the discrete risk bucket derived from the continuous score.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ExplainerSource records which explanation strategy produced the text of
// a RiskResult. It makes the generative-to-local fallback observable.
type ExplainerSource string

const (
	ExplainerLocal     ExplainerSource = "local"
	ExplainerGemini    ExplainerSource = "gemini"
	ExplainerAnthropic ExplainerSource = "anthropic"
)

// Signal is one weighted contribution to a risk score, kept on the result
// for auditability.
type Signal struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
	Detail string  `json:"detail,omitempty"`
}

// RiskResult is the output of a single-part risk analysis.
type RiskResult struct {
	Score           float64         `json:"risk_score"` // clamped to [0,1], rounded to 2 decimals
	Severity        Severity        `json:"severity"`
	Explanation     string          `json:"explanation"`
	ExplainerSource ExplainerSource `json:"explainer_source"`
	Signals         []Signal        `json:"signals"`
}
