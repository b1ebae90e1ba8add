package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/internal/analysis"
	"github.com/acheong08/guardian-angel/internal/diff"
	"github.com/acheong08/guardian-angel/internal/logging"
	"github.com/acheong08/guardian-angel/internal/render"
	"github.com/acheong08/guardian-angel/pkg/models"
)

//go:embed web/index.html
var indexHTML []byte

const maxBodyBytes = 1 << 20

// Server serves the review page, its JSON API and the WebSocket session
type Server struct {
	reviewer Reviewer
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a server that delegates every review to reviewer
func New(reviewer Reviewer, logger *zap.SugaredLogger) *Server {
	s := &Server{
		reviewer: reviewer,
		logger:   logging.OrNop(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/fix", s.handleFix)
	s.mux.HandleFunc("POST /api/review", s.handleReview)
	return s
}

// Handler returns the HTTP handler for all routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn, s.reviewer, s.logger.With("remote", r.RemoteAddr))

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

type analyzeRequest struct {
	Code string `json:"code"`
}

type analyzeResponse struct {
	Analysis string                `json:"analysis"`
	HTML     string                `json:"html"`
	Report   models.AnalysisReport `json:"report"`
}

type fixRequest struct {
	Code     string `json:"code"`
	Analysis string `json:"analysis"`
}

type fixResponse struct {
	FixedCode string `json:"fixed_code"`
	Diff      string `json:"diff"`
	Added     int    `json:"added"`
	Removed   int    `json:"removed"`
}

type reviewResponse struct {
	models.Review
	HTML string `json:"html"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if isBlank(req.Code) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}

	text, err := s.reviewer.AnalyzeCode(r.Context(), req.Code)
	if err != nil {
		s.upstreamError(w, "analysis failed", err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis: text,
		HTML:     string(render.ReportHTML(text)),
		Report:   analysis.ParseReport(text),
	})
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	var req fixRequest
	if !s.decode(w, r, &req) {
		return
	}
	if isBlank(req.Code) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}

	fixed, err := s.reviewer.FixCode(r.Context(), req.Code, req.Analysis)
	if err != nil {
		s.upstreamError(w, "fix failed", err)
		return
	}

	added, removed := diff.Stats(req.Code, fixed)
	writeJSON(w, http.StatusOK, fixResponse{
		FixedCode: fixed,
		Diff:      diff.Unified(req.Code, fixed),
		Added:     added,
		Removed:   removed,
	})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if isBlank(req.Code) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "code is required"})
		return
	}

	sink := &logSender{logger: s.logger}
	review, err := NewPipeline(s.reviewer, sink, s.logger).Run(r.Context(), req.Code)
	if err != nil {
		s.upstreamError(w, "review failed", err)
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{
		Review: *review,
		HTML:   string(render.ReportHTML(review.Analysis)),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) upstreamError(w http.ResponseWriter, message string, err error) {
	s.logger.Errorw(message, "error", err)
	writeJSON(w, http.StatusBadGateway, errorResponse{Error: message + ": " + err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func isBlank(code string) bool {
	return strings.TrimSpace(code) == ""
}

// logSender is a ProgressSender for plain HTTP requests, where there is no
// client to stream to: progress only reaches the debug log.
type logSender struct {
	logger *zap.SugaredLogger
}

func (l *logSender) SendMessage(msg Message) {
	l.logger.Debugw("pipeline message", "type", msg.Type)
}

func (l *logSender) SendLog(message, level string) {}

func (l *logSender) SendProgress(percent int, stage, message string) {
	l.logger.Debugw("pipeline progress", "percent", percent, "stage", stage, "message", message)
}

func (l *logSender) SendError(message string, err error) {
	l.logger.Debugw("pipeline error", "message", message, "error", err)
}
