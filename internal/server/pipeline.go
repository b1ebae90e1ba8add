package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/analysis"
	"github.com/acheong08/guardian-angel/internal/diff"
	"github.com/acheong08/guardian-angel/internal/logging"
	"github.com/acheong08/guardian-angel/internal/render"
	"github.com/acheong08/guardian-angel/pkg/models"
)

// Reviewer is the two-step review service the UI drives
type Reviewer interface {
	AnalyzeCode(ctx context.Context, code string) (string, error)
	FixCode(ctx context.Context, code, analysis string) (string, error)
}

// ProgressSender interface for sending progress updates
type ProgressSender interface {
	SendMessage(msg Message)
	SendLog(message, level string)
	SendProgress(percent int, stage, message string)
	SendError(message string, err error)
}

// Pipeline runs one analyze-then-fix round trip and streams each step
// to a ProgressSender
type Pipeline struct {
	reviewer Reviewer
	sender   ProgressSender
	logger   *zap.SugaredLogger
}

// NewPipeline creates a new pipeline instance
func NewPipeline(reviewer Reviewer, sender ProgressSender, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		reviewer: reviewer,
		sender:   sender,
		logger:   logging.OrNop(logger),
	}
}

// log sends a log message both to the client and to the server log
func (p *Pipeline) log(message, level string) {
	p.sender.SendLog(message, level)

	switch level {
	case "warning":
		p.logger.Warn(message)
	case "error":
		p.logger.Error(message)
	default:
		p.logger.Info(message)
	}
}

// Run executes the review. The first failing step aborts it.
func (p *Pipeline) Run(ctx context.Context, code string) (*models.Review, error) {
	p.log("Starting review...", "info")

	// Step 1: analyze (0% - 50%)
	p.sender.SendProgress(0, "analyze", "Analyzing code for vulnerabilities...")
	analysisText, err := p.reviewer.AnalyzeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	report := analysis.ParseReport(analysisText)
	p.sender.SendMessage(NewReportMessage(analysisText, string(render.ReportHTML(analysisText)), report))
	p.log(fmt.Sprintf("Analysis complete: risk score %d, %d finding(s)", report.RiskScore, len(report.Findings)), "success")
	p.sender.SendProgress(50, "fix", "Generating secure fix...")

	// Step 2: fix (50% - 100%)
	fixed, err := p.reviewer.FixCode(ctx, code, analysisText)
	if err != nil {
		return nil, fmt.Errorf("fix failed: %w", err)
	}

	unified := diff.Unified(code, fixed)
	added, removed := diff.Stats(code, fixed)
	p.sender.SendMessage(NewFixMessage(code, fixed, unified, added, removed))
	p.sender.SendProgress(100, "fix", "Fix ready for review")
	p.log(fmt.Sprintf("Fix proposed: +%d/-%d lines", added, removed), "success")

	return &models.Review{
		Code:      code,
		Analysis:  analysisText,
		Report:    report,
		FixedCode: fixed,
		Diff:      unified,
	}, nil
}
