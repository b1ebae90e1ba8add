package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/acheong08/guardian-angel/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dangerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	lowStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("69")).
			Padding(0, 1)
	addStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	delStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hunkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// scoreStyle picks a color band for a risk score
func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return okStyle
	case score >= 50:
		return warnStyle
	default:
		return dangerStyle
	}
}

func severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityHigh:
		return dangerStyle
	case models.SeverityMedium:
		return warnStyle
	default:
		return lowStyle
	}
}

func severityMarker(s models.Severity) string {
	switch s {
	case models.SeverityHigh:
		return "🔴"
	case models.SeverityMedium:
		return "🟠"
	default:
		return "🔵"
	}
}

// Terminal renders a parsed report for the CLI
func Terminal(report models.AnalysisReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SECURITY ANALYSIS REPORT"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Risk Score:"),
		scoreStyle(report.RiskScore).Render(fmt.Sprintf("%d/100", report.RiskScore)))

	status := okStyle.Render(string(report.Status))
	if report.Status != models.StatusSecure {
		status = dangerStyle.Render(string(report.Status))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Status:"), status)

	if report.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Summary:"), report.Summary)
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Detected Vulnerabilities:"))
	b.WriteString("\n")
	if len(report.Findings) == 0 {
		b.WriteString(okStyle.Render("✅ No vulnerabilities detected!"))
		b.WriteString("\n")
		return b.String()
	}

	for _, f := range report.Findings {
		style := severityStyle(f.Severity)
		fmt.Fprintf(&b, "\n%s %s %s %s\n",
			severityMarker(f.Severity),
			style.Render(f.Type),
			style.Render(fmt.Sprintf("(%s Severity)", f.Severity)),
			mutedStyle.Render("- Line "+f.Line),
		)
		if f.Description != "" {
			fmt.Fprintf(&b, "   %s\n", f.Description)
		}
	}
	return b.String()
}

// Code frames a snippet under a title
func Code(title, code string) string {
	return titleStyle.Render(title) + "\n" + boxStyle.Render(code) + "\n"
}

// Diff colors a unified diff line by line
func Diff(diff string) string {
	if diff == "" {
		return mutedStyle.Render("(no changes)") + "\n"
	}

	var b strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(labelStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(delStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
