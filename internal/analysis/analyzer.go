package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/llm"
	"github.com/acheong08/guardian-angel/internal/logging"
)

// ErrEmptyResponse is returned when the model answers with no text at all.
var ErrEmptyResponse = errors.New("model returned an empty analysis")

// Scanner asks the model for a human-readable vulnerability report
type Scanner struct {
	model  llm.Generator
	logger *zap.SugaredLogger
}

// NewScanner creates a scanner that sends prompts to model
func NewScanner(model llm.Generator, logger *zap.SugaredLogger) *Scanner {
	return &Scanner{
		model:  model,
		logger: logging.OrNop(logger),
	}
}

// Scan analyzes the code snippet and returns the model's report, trimmed but
// otherwise unmodified. The code is not validated in any way.
func (s *Scanner) Scan(ctx context.Context, code string) (string, error) {
	prompt := BuildScanPrompt(code)

	s.logger.Debugw("requesting vulnerability scan", "code_bytes", len(code))
	text, err := s.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("vulnerability scan failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	s.logger.Debugw("vulnerability scan complete", "report_bytes", len(text))
	return text, nil
}
