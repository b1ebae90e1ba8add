package refactor

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/llm"
	"github.com/acheong08/guardian-angel/internal/logging"
	"github.com/acheong08/guardian-angel/internal/redact"
)

// fixedCodeKey is the only key the model is asked to return
const fixedCodeKey = "fixed_code"

const logPreviewBytes = 2000

// Refactorer asks the model for a patched version of a snippet that fixes
// the issues named in a prior analysis and nothing else.
type Refactorer struct {
	model      llm.Generator
	logger     *zap.SugaredLogger
	redactLogs bool
}

// NewRefactorer creates a refactorer. When redactLogs is set, model output
// that ends up in log lines is scrubbed of secret-looking values first.
func NewRefactorer(model llm.Generator, logger *zap.SugaredLogger, redactLogs bool) *Refactorer {
	return &Refactorer{
		model:      model,
		logger:     logging.OrNop(logger),
		redactLogs: redactLogs,
	}
}

// Refactor returns the fixed code. Transport errors are wrapped and returned;
// malformed answers never are (see ExtractFixedCode).
func (r *Refactorer) Refactor(ctx context.Context, code, analysis string) (string, error) {
	prompt := BuildPrompt(code, analysis)

	r.logger.Debugw("requesting secure refactor", "code_bytes", len(code), "analysis_bytes", len(analysis))
	text, err := r.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("secure refactor failed: %w", err)
	}

	fixed, err := ExtractFixedCode(text, code)
	if err != nil {
		r.logger.Warnw("failed to parse refactor response as JSON, using raw text",
			"error", err,
			"response", r.preview(llm.StripCodeFence(text)),
		)
	}
	return fixed, nil
}

func (r *Refactorer) preview(text string) string {
	if r.redactLogs {
		return redact.Preview(text, logPreviewBytes)
	}
	if len(text) > logPreviewBytes {
		return text[:logPreviewBytes] + "..."
	}
	return text
}

// ExtractFixedCode interprets a refactor response:
//   - fences are stripped with llm.StripCodeFence;
//   - a JSON object with a string "fixed_code" yields that string;
//   - a JSON object without one yields original;
//   - anything else yields the cleaned text itself, together with the
//     decode error so callers can log it.
func ExtractFixedCode(response, original string) (string, error) {
	cleaned := llm.StripCodeFence(response)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return cleaned, fmt.Errorf("response is not a JSON object: %w", err)
	}
	if obj == nil {
		// Literal null decodes into a nil map without error
		return cleaned, fmt.Errorf("response is not a JSON object: null")
	}

	raw, ok := obj[fixedCodeKey]
	if !ok {
		return original, nil
	}
	var fixed *string
	if err := json.Unmarshal(raw, &fixed); err != nil || fixed == nil {
		return original, nil
	}
	return *fixed, nil
}
