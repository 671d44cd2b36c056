package http

import (
	"context"
	"sync"
	"time"

	"intelfeed/internal/reports/domain/model"
	"intelfeed/internal/reports/usecase"
	"intelfeed/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebSocketHandler streams report progress events to connected clients.
type WebSocketHandler struct {
	realtimeUC usecase.RealtimeUsecase
	reportUC   usecase.ReportUsecaseInterface
	log        logger.Logger
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(realtimeUC usecase.RealtimeUsecase, reportUC usecase.ReportUsecaseInterface, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		realtimeUC: realtimeUC,
		reportUC:   reportUC,
		log:        log.WithComponent("report_ws"),
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router) {
	ws := router.Group("/ws")

	ws.Use("/reports", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	ws.Get("/reports", websocket.New(h.handleConnection))
}

// subscriptionRequest is the client -> server message shape.
type subscriptionRequest struct {
	Action      string `json:"action"`
	ReportID    string `json:"report_id"`
	ResumeToken string `json:"resume_token,omitempty"`
}

// wsMessage is the server -> client message shape.
type wsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subscriberID := uuid.NewString()
	events := make(chan model.ProgressEvent, 100)

	h.log.WithFields(map[string]interface{}{"subscriber_id": subscriberID}).Info("websocket connected")

	var writeMu sync.Mutex
	writeJSON := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	defer func() {
		h.log.WithFields(map[string]interface{}{"subscriber_id": subscriberID}).Info("websocket closing")
		_ = h.realtimeUC.UnsubscribeAll(context.Background(), subscriberID)
	}()

	// Forward progress events to the client.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				if err := writeJSON(wsMessage{Type: "report_progress", Data: event}); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req subscriptionRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithFields(map[string]interface{}{"subscriber_id": subscriberID}).
					WithError(err).Warn("websocket read error")
			}
			return
		}

		switch req.Action {
		case "subscribe":
			h.handleSubscribe(ctx, subscriberID, req, events, writeJSON)
		case "unsubscribe":
			_ = h.realtimeUC.Unsubscribe(ctx, subscriberID, req.ReportID)
			_ = writeJSON(wsMessage{Type: "unsubscription_confirmed", Data: fiber.Map{"report_id": req.ReportID}})
		default:
			_ = writeJSON(wsMessage{Type: "error", Data: fiber.Map{
				"error":   "invalid_action",
				"message": "Unknown action: " + req.Action,
			}})
		}
	}
}

func (h *WebSocketHandler) handleSubscribe(
	ctx context.Context,
	subscriberID string,
	req subscriptionRequest,
	events chan model.ProgressEvent,
	writeJSON func(wsMessage) error,
) {
	if req.ReportID == "" {
		_ = writeJSON(wsMessage{Type: "error", Data: fiber.Map{
			"error":   "invalid_report",
			"message": "report_id is required",
		}})
		return
	}

	if _, err := h.reportUC.GetReport(ctx, req.ReportID); err != nil {
		_ = writeJSON(wsMessage{Type: "error", Data: fiber.Map{
			"error":   "report_not_found",
			"message": "Report " + req.ReportID + " not found",
		}})
		return
	}

	if err := h.realtimeUC.Subscribe(ctx, subscriberID, req.ReportID, events); err != nil {
		_ = writeJSON(wsMessage{Type: "error", Data: fiber.Map{
			"error":   "subscription_failed",
			"message": "Failed to subscribe to report",
		}})
		return
	}

	_ = writeJSON(wsMessage{Type: "subscription_confirmed", Data: fiber.Map{"report_id": req.ReportID}})

	// Replay persisted events so a reconnecting client catches up.
	missed, err := h.reportUC.ProgressSince(ctx, req.ReportID, req.ResumeToken)
	if err != nil {
		h.log.WithError(err).Warn("failed to replay progress events")
		return
	}
	for _, event := range missed {
		if err := writeJSON(wsMessage{Type: "report_progress", Data: event}); err != nil {
			return
		}
	}
}
