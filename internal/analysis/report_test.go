package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acheong08/guardian-angel/pkg/models"
)

const sampleReport = `**SECURITY ANALYSIS REPORT**

**Risk Score:** 70
**Status:** At Risk

**Summary:**
The snippet hardcodes a database password
and builds SQL from user input.

**Detected Vulnerabilities:**

🔴 **Hardcoded Credentials** (High Severity) - Line 1
Description: The password 'abc123' is stored in source code.

🟠 **SQL Injection** (Medium Severity) - Line 3
Description: Query is built with string concatenation.
Attackers can alter the statement (high impact).`

func TestParseReportText(t *testing.T) {
	report := ParseReport(sampleReport)

	assert.Equal(t, 70, report.RiskScore)
	assert.Equal(t, models.StatusAtRisk, report.Status)
	assert.Equal(t, "The snippet hardcodes a database password and builds SQL from user input.", report.Summary)
	assert.Equal(t, sampleReport, report.Raw)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, models.Finding{
		Type:        "Hardcoded Credentials",
		Severity:    models.SeverityHigh,
		Line:        "1",
		Description: "The password 'abc123' is stored in source code.",
	}, report.Findings[0])

	assert.Equal(t, "SQL Injection", report.Findings[1].Type)
	assert.Equal(t, models.SeverityMedium, report.Findings[1].Severity)
	assert.Equal(t, "3", report.Findings[1].Line)
	assert.Contains(t, report.Findings[1].Description, "string concatenation.")
	assert.Contains(t, report.Findings[1].Description, "(high impact)")
}

func TestParseReportNoVulnerabilities(t *testing.T) {
	text := "**SECURITY ANALYSIS REPORT**\n\n**Risk Score:** 100\n**Status:** Secure\n\n" +
		"**Summary:** Nothing to worry about.\n\n**Detected Vulnerabilities:**\n✅ No vulnerabilities detected!"

	report := ParseReport(text)
	assert.Equal(t, 100, report.RiskScore)
	assert.Equal(t, models.StatusSecure, report.Status)
	assert.Equal(t, "Nothing to worry about.", report.Summary)
	assert.Empty(t, report.Findings)
	assert.NotNil(t, report.Findings)
}

func TestParseReportComputesMissingFields(t *testing.T) {
	text := "🔴 **Path Traversal** (High Severity) - Line 4\nDescription: joins user input into a path.\n" +
		"🔵 **Verbose Errors** (Low Severity) - Line 9\nDescription: stack traces leak."

	report := ParseReport(text)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, 75, report.RiskScore)
	assert.Equal(t, models.StatusAtRisk, report.Status)
	assert.Equal(t, models.SeverityLow, report.Findings[1].Severity)
	assert.Equal(t, "9", report.Findings[1].Line)
}

func TestParseReportJSON(t *testing.T) {
	text := "```json\n" + `{
  "risk_score": 80,
  "status": "at risk",
  "summary": "Credentials are hardcoded.",
  "vulnerabilities": [
    {"type": "Hardcoded Credentials", "severity": "HIGH", "line": 5, "description": "clientsecret in source"}
  ]
}` + "\n```"

	report := ParseReport(text)
	assert.Equal(t, 80, report.RiskScore)
	assert.Equal(t, models.StatusAtRisk, report.Status)
	assert.Equal(t, "Credentials are hardcoded.", report.Summary)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, models.SeverityHigh, report.Findings[0].Severity)
	assert.Equal(t, "5", report.Findings[0].Line)
}

func TestParseReportJSONWithoutScore(t *testing.T) {
	text := `{"vulnerabilities": [{"type": "XSS", "severity": "Medium", "line": "2-3", "description": "unescaped"}]}`

	report := ParseReport(text)
	assert.Equal(t, 90, report.RiskScore)
	assert.Equal(t, models.StatusAtRisk, report.Status)
	assert.Equal(t, "2-3", report.Findings[0].Line)
}

func TestParseReportGarbage(t *testing.T) {
	report := ParseReport("I cannot help with that.")
	assert.Equal(t, 100, report.RiskScore)
	assert.Equal(t, models.StatusSecure, report.Status)
	assert.Empty(t, report.Findings)
	assert.Equal(t, "I cannot help with that.", report.Raw)
}

func TestRiskScore(t *testing.T) {
	high := models.Finding{Severity: models.SeverityHigh}
	medium := models.Finding{Severity: models.SeverityMedium}
	low := models.Finding{Severity: models.SeverityLow}

	tests := []struct {
		name     string
		findings []models.Finding
		expected int
	}{
		{"none", nil, 100},
		{"one of each", []models.Finding{high, medium, low}, 65},
		{"floored at zero", []models.Finding{high, high, high, high, high, high}, 0},
		{"unknown severity ignored", []models.Finding{{Severity: "Weird"}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RiskScore(tt.findings))
		})
	}
}
