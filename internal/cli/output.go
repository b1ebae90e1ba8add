package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/acheong08/guardian-angel/pkg/models"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatRaw  = "raw"
)

// Shared output flags
var (
	flagFormat string
	flagFailOn string
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatRaw:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json or raw)", s)
	}
}

// parseFailOn turns a --fail-on value into a severity rank; 0 disables it
func parseFailOn(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return 0, nil
	case "low":
		return severityRank(models.SeverityLow), nil
	case "medium":
		return severityRank(models.SeverityMedium), nil
	case "high":
		return severityRank(models.SeverityHigh), nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want none, low, medium or high)", s)
	}
}

func severityRank(s models.Severity) int {
	switch s {
	case models.SeverityHigh:
		return 3
	case models.SeverityMedium:
		return 2
	case models.SeverityLow:
		return 1
	default:
		return 0
	}
}

// meetsThreshold reports whether any finding is at or above threshold
func meetsThreshold(report models.AnalysisReport, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	for _, f := range report.Findings {
		if severityRank(f.Severity) >= threshold {
			return true
		}
	}
	return false
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
