package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/acheong08/guardian-angel/pkg/models"
)

const (
	acceptedMessage = "Fix accepted! Code has been updated (Simulated)."
	rejectedMessage = "Fix rejected. You can modify the input code and analyze again."

	pingInterval = 30 * time.Second
)

// Client represents a connected WebSocket client. Each connection is its own
// review session: it remembers the last review so that accept/reject can
// refer to it.
type Client struct {
	conn     *websocket.Conn
	reviewer Reviewer
	logger   *zap.SugaredLogger
	send     chan Message
	done     chan struct{}

	// Track if a review is running (one at a time)
	reviewCtx    context.Context
	reviewCancel context.CancelFunc

	last *models.Review
}

func newClient(conn *websocket.Conn, reviewer Reviewer, logger *zap.SugaredLogger) *Client {
	return &Client{
		conn:     conn,
		reviewer: reviewer,
		logger:   logger,
		send:     make(chan Message, 256),
		done:     make(chan struct{}),
	}
}

func (c *Client) SendMessage(msg Message) {
	select {
	case c.send <- msg:
	default:
		// Channel full, drop message
		c.logger.Warnw("message channel full, dropping message", "type", msg.Type)
	}
}

func (c *Client) SendLog(message, level string) {
	c.SendMessage(NewLogMessage(message, level))
}

func (c *Client) SendProgress(percent int, stage, message string) {
	c.SendMessage(NewProgressMessage(percent, stage, message))
}

func (c *Client) SendError(message string, err error) {
	c.SendMessage(NewErrorMessage(message, err))
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debugw("error writing message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			// Flush what is already queued, then say goodbye
			for {
				select {
				case msg := <-c.send:
					if err := c.conn.WriteJSON(msg); err != nil {
						return
					}
				default:
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		// Cancel any running review
		if c.reviewCancel != nil {
			c.reviewCancel()
		}
		close(c.done)
	}()

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("websocket error", "error", err)
			}
			return
		}

		switch msg.Type {
		case TypeAnalyze:
			c.handleAnalyze(msg)
		case TypeDecision:
			c.handleDecision(msg)
		case TypePing:
			c.SendMessage(Message{Type: TypePong})
		default:
			c.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type), nil)
		}
	}
}

func (c *Client) handleAnalyze(msg Message) {
	// Check if already reviewing
	if c.reviewCtx != nil && c.reviewCtx.Err() == nil {
		c.SendError("Review already in progress", nil)
		return
	}

	payload, err := ParseAnalyzePayload(msg)
	if err != nil {
		c.SendError("Failed to parse analyze request", err)
		return
	}
	if isBlank(payload.Code) {
		c.SendError("code is required", nil)
		return
	}

	// Create cancellable context for this review
	c.reviewCtx, c.reviewCancel = context.WithCancel(context.Background())
	defer func() {
		c.reviewCancel()
		c.reviewCtx = nil
		c.reviewCancel = nil
	}()

	pipeline := NewPipeline(c.reviewer, c, c.logger)
	review, err := pipeline.Run(c.reviewCtx, payload.Code)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.SendLog("Review cancelled", "warning")
		} else {
			c.SendError("An error occurred during analysis", err)
		}
		return
	}

	c.last = review
	c.SendMessage(NewCompleteMessage(true, "Review complete"))
}

func (c *Client) handleDecision(msg Message) {
	if c.last == nil {
		c.SendError("No fix to review", nil)
		return
	}

	payload, err := ParseDecisionPayload(msg)
	if err != nil {
		c.SendError("Failed to parse decision", err)
		return
	}

	if payload.Accepted {
		c.logger.Infow("fix accepted", "fixed_bytes", len(c.last.FixedCode))
		c.SendMessage(NewDecisionMessage(true, acceptedMessage, c.last.FixedCode))
		return
	}
	c.logger.Infow("fix rejected")
	c.SendMessage(NewDecisionMessage(false, rejectedMessage, ""))
}
