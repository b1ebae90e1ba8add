package models

// Severity is the tier the model assigns to a finding
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Penalty returns the number of risk points a finding of this severity costs
func (s Severity) Penalty() int {
	switch s {
	case SeverityHigh:
		return 20
	case SeverityMedium:
		return 10
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

// Status is the overall verdict of a report
type Status string

const (
	StatusSecure Status = "Secure"
	StatusAtRisk Status = "At Risk"
)

// Finding is a single vulnerability reported by the model
type Finding struct {
	Type        string   `json:"type"`        // "Hardcoded Credentials"
	Severity    Severity `json:"severity"`    // "High"
	Line        string   `json:"line"`        // "3", "3-5" or "N/A"
	Description string   `json:"description"` // free text from the model
}

// AnalysisReport is the structured view of the analyzer's free-text answer.
// Raw always holds the text exactly as the model returned it.
type AnalysisReport struct {
	RiskScore int       `json:"risk_score"`
	Status    Status    `json:"status"`
	Summary   string    `json:"summary"`
	Findings  []Finding `json:"findings"`
	Raw       string    `json:"raw"`
}

// CountBySeverity returns how many findings carry the given severity
func (r *AnalysisReport) CountBySeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Review is the outcome of one analyze-then-fix round trip
type Review struct {
	Code      string         `json:"code"`
	Analysis  string         `json:"analysis"`
	Report    AnalysisReport `json:"report"`
	FixedCode string         `json:"fixed_code"`
	Diff      string         `json:"diff"`
}
