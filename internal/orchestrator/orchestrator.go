package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/analysis"
	"github.com/acheong08/guardian-angel/internal/config"
	"github.com/acheong08/guardian-angel/internal/diff"
	"github.com/acheong08/guardian-angel/internal/llm"
	"github.com/acheong08/guardian-angel/internal/logging"
	"github.com/acheong08/guardian-angel/internal/refactor"
	"github.com/acheong08/guardian-angel/pkg/models"
)

// Orchestrator owns one model handle and the two workers sharing it. Its
// state never changes after construction, so one instance can serve
// concurrent callers.
type Orchestrator struct {
	model      llm.Generator
	scanner    *analysis.Scanner
	refactorer *refactor.Refactorer
	logger     *zap.SugaredLogger
}

// New creates an orchestrator from configuration. A missing API key fails
// with a configuration error before any client is built.
func New(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure model: %w", err)
	}

	logging.OrNop(logger).Infow("security orchestrator ready", "provider", cfg.Provider, "model", model.Name())
	return NewWithModel(model, logger, cfg.RedactLogs), nil
}

// NewWithModel wires the workers around an existing model handle
func NewWithModel(model llm.Generator, logger *zap.SugaredLogger, redactLogs bool) *Orchestrator {
	logger = logging.OrNop(logger)
	return &Orchestrator{
		model:      model,
		scanner:    analysis.NewScanner(model, logger.Named("scanner")),
		refactorer: refactor.NewRefactorer(model, logger.Named("refactorer"), redactLogs),
		logger:     logger,
	}
}

// Scanner returns the analysis worker
func (o *Orchestrator) Scanner() *analysis.Scanner { return o.scanner }

// Refactorer returns the fixing worker
func (o *Orchestrator) Refactorer() *refactor.Refactorer { return o.refactorer }

// AnalyzeCode delegates to the scanner
func (o *Orchestrator) AnalyzeCode(ctx context.Context, code string) (string, error) {
	return o.scanner.Scan(ctx, code)
}

// FixCode delegates to the refactorer
func (o *Orchestrator) FixCode(ctx context.Context, code, analysis string) (string, error) {
	return o.refactorer.Refactor(ctx, code, analysis)
}

// Review analyzes the code, asks for a fix based on that analysis, and
// bundles both with the parsed report and a unified diff. It stops at the
// first failing step.
func (o *Orchestrator) Review(ctx context.Context, code string) (*models.Review, error) {
	report, err := o.AnalyzeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	fixed, err := o.FixCode(ctx, code, report)
	if err != nil {
		return nil, err
	}

	return &models.Review{
		Code:      code,
		Analysis:  report,
		Report:    analysis.ParseReport(report),
		FixedCode: fixed,
		Diff:      diff.Unified(code, fixed),
	}, nil
}
