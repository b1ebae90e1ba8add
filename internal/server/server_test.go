package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, reviewer Reviewer) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(reviewer, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthAndIndex(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestAPIAnalyze(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{analysis: testReport})

	resp, out := postJSON(t, ts.URL+"/api/analyze", map[string]string{"code": "password = 'abc123'"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testReport, out["analysis"])
	assert.Contains(t, out["html"], "<br/>")

	report, ok := out["report"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(80), report["risk_score"])
}

func TestAPIFix(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{fixed: "password = os.environ['PASSWORD']"})

	resp, out := postJSON(t, ts.URL+"/api/fix", map[string]string{
		"code":     "password = 'abc123'",
		"analysis": testReport,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "password = os.environ['PASSWORD']", out["fixed_code"])
	assert.Contains(t, out["diff"], "--- Original")
}

func TestAPIReview(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{analysis: testReport, fixed: "password = os.environ['PASSWORD']"})

	resp, out := postJSON(t, ts.URL+"/api/review", map[string]string{"code": "password = 'abc123'"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "password = 'abc123'", out["code"])
	assert.Equal(t, "password = os.environ['PASSWORD']", out["fixed_code"])
	assert.NotEmpty(t, out["diff"])
	assert.NotEmpty(t, out["html"])
}

func TestAPIRejectsEmptyCode(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{})

	for _, path := range []string{"/api/analyze", "/api/fix", "/api/review"} {
		resp, out := postJSON(t, ts.URL+path, map[string]string{"code": "   "})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "code is required", out["error"], path)
	}
}

func TestAPIRejectsInvalidJSON(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{})

	resp, err := http.Post(ts.URL+"/api/analyze", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIModelErrorIsBadGateway(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{analyzeErr: errors.New("permission denied")})

	resp, out := postJSON(t, ts.URL+"/api/analyze", map[string]string{"code": "x"})
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, out["error"], "permission denied")
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one of type want arrives and returns every
// message seen, including that one.
func readUntil(t *testing.T, conn *websocket.Conn, want MessageType) []Message {
	t.Helper()
	var seen []Message
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		seen = append(seen, msg)
		if msg.Type == want {
			return seen
		}
	}
}

func sendWS(t *testing.T, conn *websocket.Conn, msgType MessageType, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Type: msgType, Payload: data}))
}

func TestWebSocketReviewAndDecision(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{analysis: testReport, fixed: "password = os.environ['PASSWORD']"})
	conn := dialWS(t, ts)

	sendWS(t, conn, TypeAnalyze, AnalyzePayload{Code: "password = 'abc123'"})
	seen := readUntil(t, conn, TypeComplete)

	var types []MessageType
	for _, m := range seen {
		types = append(types, m.Type)
	}
	assert.Contains(t, types, TypeReport)
	assert.Contains(t, types, TypeFix)
	assert.Contains(t, types, TypeProgress)

	sendWS(t, conn, TypeDecision, DecisionPayload{Accepted: true})
	seen = readUntil(t, conn, TypeDecision)
	var accepted DecisionResultPayload
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &accepted))
	assert.True(t, accepted.Accepted)
	assert.Equal(t, acceptedMessage, accepted.Message)
	assert.Equal(t, "password = os.environ['PASSWORD']", accepted.FixedCode)

	sendWS(t, conn, TypeDecision, DecisionPayload{Accepted: false})
	seen = readUntil(t, conn, TypeDecision)
	var rejected DecisionResultPayload
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &rejected))
	assert.False(t, rejected.Accepted)
	assert.Equal(t, rejectedMessage, rejected.Message)
}

func TestWebSocketErrors(t *testing.T) {
	ts := newTestServer(t, &fakeReviewer{analyzeErr: errors.New("quota exceeded")})
	conn := dialWS(t, ts)

	sendWS(t, conn, TypeDecision, DecisionPayload{Accepted: true})
	seen := readUntil(t, conn, TypeError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &payload))
	assert.Equal(t, "No fix to review", payload.Message)

	sendWS(t, conn, TypeAnalyze, AnalyzePayload{Code: ""})
	seen = readUntil(t, conn, TypeError)
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &payload))
	assert.Equal(t, "code is required", payload.Message)

	sendWS(t, conn, TypeAnalyze, AnalyzePayload{Code: "x"})
	seen = readUntil(t, conn, TypeError)
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &payload))
	assert.Contains(t, payload.Message, "quota exceeded")

	require.NoError(t, conn.WriteJSON(Message{Type: TypePing}))
	readUntil(t, conn, TypePong)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	seen = readUntil(t, conn, TypeError)
	require.NoError(t, json.Unmarshal(seen[len(seen)-1].Payload, &payload))
	assert.Contains(t, payload.Message, "Unknown message type")
}
