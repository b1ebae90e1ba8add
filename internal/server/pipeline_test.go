package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acheong08/guardian-angel/pkg/models"
)

const testReport = "**Risk Score:** 80\n**Status:** At Risk\n\n**Detected Vulnerabilities:**\n" +
	"🔴 **Hardcoded Credentials** (High Severity) - Line 1\nDescription: literal password"

type fakeReviewer struct {
	analysis   string
	fixed      string
	analyzeErr error
	fixErr     error

	mu        sync.Mutex
	fixCalls  int
	gotReport string
}

func (f *fakeReviewer) AnalyzeCode(ctx context.Context, code string) (string, error) {
	if f.analyzeErr != nil {
		return "", f.analyzeErr
	}
	return f.analysis, nil
}

func (f *fakeReviewer) FixCode(ctx context.Context, code, analysis string) (string, error) {
	f.mu.Lock()
	f.fixCalls++
	f.gotReport = analysis
	f.mu.Unlock()
	if f.fixErr != nil {
		return "", f.fixErr
	}
	return f.fixed, nil
}

type recordingSender struct {
	messages []Message
	percents []int
}

func (r *recordingSender) SendMessage(msg Message)       { r.messages = append(r.messages, msg) }
func (r *recordingSender) SendLog(message, level string) { r.SendMessage(NewLogMessage(message, level)) }
func (r *recordingSender) SendError(message string, err error) {
	r.SendMessage(NewErrorMessage(message, err))
}
func (r *recordingSender) SendProgress(percent int, stage, message string) {
	r.percents = append(r.percents, percent)
	r.SendMessage(NewProgressMessage(percent, stage, message))
}

func (r *recordingSender) ofType(t MessageType) []Message {
	var out []Message
	for _, m := range r.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func TestPipelineRun(t *testing.T) {
	reviewer := &fakeReviewer{
		analysis: testReport,
		fixed:    "import os\npassword = os.getenv('DB_PASSWORD')",
	}
	sender := &recordingSender{}

	review, err := NewPipeline(reviewer, sender, nil).Run(context.Background(), "password = 'abc123'")
	require.NoError(t, err)

	assert.Equal(t, testReport, reviewer.gotReport, "fix step must receive the analysis text")
	assert.Equal(t, []int{0, 50, 100}, sender.percents)
	assert.Equal(t, models.StatusAtRisk, review.Report.Status)
	assert.Contains(t, review.Diff, "+import os")

	reports := sender.ofType(TypeReport)
	require.Len(t, reports, 1)
	var report ReportPayload
	require.NoError(t, json.Unmarshal(reports[0].Payload, &report))
	assert.Contains(t, report.HTML, "<strong>Risk Score:</strong>")
	assert.Equal(t, 80, report.Report.RiskScore)

	fixes := sender.ofType(TypeFix)
	require.Len(t, fixes, 1)
	var fix FixPayload
	require.NoError(t, json.Unmarshal(fixes[0].Payload, &fix))
	assert.Equal(t, "password = 'abc123'", fix.Original)
	assert.NotContains(t, fix.FixedCode, "'abc123'")
	assert.Equal(t, 2, fix.Added)
	assert.Equal(t, 1, fix.Removed)
}

func TestPipelineStopsWhenAnalysisFails(t *testing.T) {
	reviewer := &fakeReviewer{analyzeErr: errors.New("invalid API key")}
	sender := &recordingSender{}

	_, err := NewPipeline(reviewer, sender, nil).Run(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key")
	assert.Equal(t, 0, reviewer.fixCalls)
	assert.Empty(t, sender.ofType(TypeReport))
}

func TestPipelineFixFailureKeepsReport(t *testing.T) {
	reviewer := &fakeReviewer{analysis: testReport, fixErr: errors.New("timeout")}
	sender := &recordingSender{}

	_, err := NewPipeline(reviewer, sender, nil).Run(context.Background(), "x")
	require.Error(t, err)
	assert.Len(t, sender.ofType(TypeReport), 1)
	assert.Empty(t, sender.ofType(TypeFix))
}
