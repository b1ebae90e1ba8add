package server

import (
	"encoding/json"
	"fmt"

	"github.com/acheong08/guardian-angel/pkg/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// Client -> Server
	TypeAnalyze MessageType = "analyze" // Client sends a snippet to review
	TypePing    MessageType = "ping"    // Keep-alive

	// Both directions: the client sends its choice, the server acknowledges it
	TypeDecision MessageType = "decision"

	// Server -> Client
	TypeProgress MessageType = "progress" // Progress updates
	TypeLog      MessageType = "log"      // Log messages for the activity panel
	TypeReport   MessageType = "report"   // Analysis text, rendered HTML and parsed report
	TypeFix      MessageType = "fix"      // Fixed code and diff
	TypeComplete MessageType = "complete" // Review complete
	TypeError    MessageType = "error"    // Error message
	TypePong     MessageType = "pong"
)

// Message is the base WebSocket message structure
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AnalyzePayload sent by client to start a review
type AnalyzePayload struct {
	Code string `json:"code"`
}

// DecisionPayload sent by client to accept or reject the proposed fix
type DecisionPayload struct {
	Accepted bool `json:"accepted"`
}

// ProgressPayload for progress bar updates
type ProgressPayload struct {
	Percent int    `json:"percent"` // 0-100
	Stage   string `json:"stage"`   // "analyze", "fix"
	Message string `json:"message"` // Human-readable status
}

// LogPayload for the activity panel
type LogPayload struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"` // "info", "success", "warning", "error"
}

// ReportPayload carries the analyzer's answer
type ReportPayload struct {
	Analysis string                `json:"analysis"` // raw model text
	HTML     string                `json:"html"`     // escaped, ready for innerHTML
	Report   models.AnalysisReport `json:"report"`
}

// FixPayload carries the proposed fix
type FixPayload struct {
	Original  string `json:"original"`
	FixedCode string `json:"fixed_code"`
	Diff      string `json:"diff"`
	Added     int    `json:"added"`
	Removed   int    `json:"removed"`
}

// DecisionResultPayload acknowledges an accept/reject choice. Nothing is
// written anywhere; the page only shows Message.
type DecisionResultPayload struct {
	Accepted  bool   `json:"accepted"`
	Message   string `json:"message"`
	FixedCode string `json:"fixed_code,omitempty"`
}

// CompletePayload sent when the review is done
type CompletePayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorPayload for error messages
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Helper functions to create messages

func newMessage(t MessageType, payload any) Message {
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: t, Payload: payloadBytes}
}

func NewProgressMessage(percent int, stage, message string) Message {
	return newMessage(TypeProgress, ProgressPayload{
		Percent: percent,
		Stage:   stage,
		Message: message,
	})
}

func NewLogMessage(message, level string) Message {
	return newMessage(TypeLog, LogPayload{
		Message: message,
		Level:   level,
	})
}

func NewReportMessage(analysis, html string, report models.AnalysisReport) Message {
	return newMessage(TypeReport, ReportPayload{
		Analysis: analysis,
		HTML:     html,
		Report:   report,
	})
}

func NewFixMessage(original, fixed, diff string, added, removed int) Message {
	return newMessage(TypeFix, FixPayload{
		Original:  original,
		FixedCode: fixed,
		Diff:      diff,
		Added:     added,
		Removed:   removed,
	})
}

func NewDecisionMessage(accepted bool, message, fixed string) Message {
	return newMessage(TypeDecision, DecisionResultPayload{
		Accepted:  accepted,
		Message:   message,
		FixedCode: fixed,
	})
}

func NewCompleteMessage(success bool, message string) Message {
	return newMessage(TypeComplete, CompletePayload{
		Success: success,
		Message: message,
	})
}

func NewErrorMessage(message string, err error) Message {
	errMsg := message
	if err != nil {
		errMsg = fmt.Sprintf("%s: %v", message, err)
	}
	return newMessage(TypeError, ErrorPayload{Message: errMsg})
}

// ParseAnalyzePayload extracts the analyze payload from a message
func ParseAnalyzePayload(msg Message) (*AnalyzePayload, error) {
	var payload AnalyzePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analyze payload: %w", err)
	}
	return &payload, nil
}

// ParseDecisionPayload extracts the decision payload from a message
func ParseDecisionPayload(msg Message) (*DecisionPayload, error) {
	var payload DecisionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse decision payload: %w", err)
	}
	return &payload, nil
}
