package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/acheong08/guardian-angel/internal/llm"
	"github.com/acheong08/guardian-angel/pkg/models"
)

var (
	riskScoreRe = regexp.MustCompile(`(?i)risk[ _]?score\W*?(\d{1,3})`)
	statusRe    = regexp.MustCompile(`(?im)^\W*status\W*?(at risk|secure)\b`)
	findingRe   = regexp.MustCompile(`(?i)^\W*(.+?)\**\s*\((high|medium|low)(?:\s+severity)?\)(?:\s*[-–—:]?\s*line\s*:?\s*(.+))?$`)
	summaryRe   = regexp.MustCompile(`(?i)^\W*summary\s*:?\**\s*:?\s*(.*)$`)
	sectionRe   = regexp.MustCompile(`(?i)^\W*(detected vulnerabilities|vulnerabilities|findings|risk score calculation)\W*$`)
	descRe      = regexp.MustCompile(`(?i)^\W*description\s*:?\**\s*:?\s*(.*)$`)
)

// RiskScore applies the scoring rule the model is asked to follow: start at
// 100, subtract 20/10/5 per High/Medium/Low finding, never below 0.
func RiskScore(findings []models.Finding) int {
	score := 100
	for _, f := range findings {
		score -= f.Severity.Penalty()
	}
	if score < 0 {
		return 0
	}
	return score
}

// ParseReport coerces the analyzer's answer into an AnalysisReport. Both the
// requested human-readable layout and a JSON object are understood. Parsing
// never fails; anything it cannot read is left at the computed defaults.
func ParseReport(text string) models.AnalysisReport {
	report, ok := parseJSONReport(text)
	if !ok {
		report = parseTextReport(text)
	}
	report.Raw = text

	if report.RiskScore < 0 {
		report.RiskScore = RiskScore(report.Findings)
	}
	if report.RiskScore > 100 {
		report.RiskScore = 100
	}
	if report.Status == "" {
		report.Status = models.StatusSecure
		if len(report.Findings) > 0 {
			report.Status = models.StatusAtRisk
		}
	}
	if report.Findings == nil {
		report.Findings = []models.Finding{}
	}
	return report
}

type jsonReport struct {
	RiskScore       *int          `json:"risk_score"`
	Status          string        `json:"status"`
	Summary         string        `json:"summary"`
	Vulnerabilities []jsonFinding `json:"vulnerabilities"`
	Findings        []jsonFinding `json:"findings"`
}

type jsonFinding struct {
	Type        string          `json:"type"`
	Severity    string          `json:"severity"`
	Line        json.RawMessage `json:"line"`
	Description string          `json:"description"`
}

func parseJSONReport(text string) (models.AnalysisReport, bool) {
	cleaned := llm.StripCodeFence(text)
	if !strings.HasPrefix(cleaned, "{") {
		return models.AnalysisReport{}, false
	}

	var raw jsonReport
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return models.AnalysisReport{}, false
	}

	report := models.AnalysisReport{
		RiskScore: -1,
		Status:    normalizeStatus(raw.Status),
		Summary:   strings.TrimSpace(raw.Summary),
	}
	if raw.RiskScore != nil {
		report.RiskScore = *raw.RiskScore
	}

	for _, f := range append(raw.Vulnerabilities, raw.Findings...) {
		report.Findings = append(report.Findings, models.Finding{
			Type:        strings.TrimSpace(f.Type),
			Severity:    normalizeSeverity(f.Severity),
			Line:        rawLine(f.Line),
			Description: strings.TrimSpace(f.Description),
		})
	}
	return report, true
}

func parseTextReport(text string) models.AnalysisReport {
	report := models.AnalysisReport{RiskScore: -1}

	if m := riskScoreRe.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			report.RiskScore = score
		}
	}
	if m := statusRe.FindStringSubmatch(text); m != nil {
		report.Status = normalizeStatus(m[1])
	}

	const (
		sectionNone = iota
		sectionSummary
		sectionFindings
	)
	section := sectionNone
	var summary []string
	var current *models.Finding

	flush := func() {
		if current != nil {
			current.Description = strings.TrimSpace(current.Description)
			report.Findings = append(report.Findings, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := summaryRe.FindStringSubmatch(trimmed); m != nil {
			section = sectionSummary
			if rest := strings.TrimSpace(m[1]); rest != "" {
				summary = append(summary, rest)
			}
			continue
		}
		if m := sectionRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = sectionFindings
			if strings.EqualFold(m[1], "risk score calculation") {
				section = sectionNone
			}
			continue
		}
		if section == sectionFindings && current != nil {
			if m := descRe.FindStringSubmatch(trimmed); m != nil {
				current.Description = m[1]
				continue
			}
		}
		if m := findingRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = sectionFindings
			current = &models.Finding{
				Type:     strings.Trim(strings.TrimSpace(m[1]), "*[] "),
				Severity: normalizeSeverity(m[2]),
				Line:     cleanLine(m[3]),
			}
			continue
		}

		switch section {
		case sectionSummary:
			if isFieldLine(trimmed) {
				continue
			}
			summary = append(summary, trimmed)
		case sectionFindings:
			if current != nil {
				current.Description += " " + trimmed
			}
		}
	}
	flush()

	report.Summary = strings.Join(summary, " ")
	return report
}

// isFieldLine reports whether a line is one of the header fields that can
// appear inside the summary block when the model reorders sections.
func isFieldLine(line string) bool {
	return riskScoreRe.MatchString(line) ||
		statusRe.MatchString(line) ||
		strings.Contains(strings.ToUpper(line), "SECURITY ANALYSIS REPORT")
}

func normalizeSeverity(s string) models.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "high":
		return models.SeverityHigh
	case "medium", "moderate":
		return models.SeverityMedium
	case "low", "info", "informational":
		return models.SeverityLow
	default:
		return models.Severity(strings.TrimSpace(s))
	}
}

func normalizeStatus(s string) models.Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case "secure":
		return models.StatusSecure
	case "at risk", "at_risk", "insecure", "vulnerable":
		return models.StatusAtRisk
	default:
		return models.Status(strings.TrimSpace(s))
	}
}

func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*[]().:; ")
	if s == "" {
		return "N/A"
	}
	return s
}

func rawLine(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "N/A"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return cleanLine(s)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%d", int(n))
	}
	return cleanLine(string(raw))
}
