package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// Handler streams group events to connected clients
type Handler struct {
	eventBus ports.EventBus
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(eventBus ports.EventBus, logger *zap.Logger) *Handler {
	return &Handler{
		eventBus: eventBus,
		logger:   logger,
	}
}

// HandleGroupStream streams events for a single group over a WebSocket.
// Clients see joins, exclusion changes and draw outcomes live; event
// payloads never carry assignment pairs, so nothing sensitive crosses
// this channel.
func (h *Handler) HandleGroupStream(c *gin.Context) {
	groupID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("WebSocket connection established",
		zap.String("group_id", groupID),
		zap.String("client", c.ClientIP()))

	eventChan := make(chan domain.Event, 10)
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// A unique subscriber name per connection makes delivery a broadcast:
	// every connection sees every event, independent of other consumers.
	// The subscription ends with the connection context.
	h.subscribe(ctx, "ws-"+uuid.New().String(), eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eventChan:
			// Only forward events for this group
			if event.GroupID != groupID {
				continue
			}

			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal event", zap.Error(err))
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Error("failed to write message", zap.Error(err))
				return
			}
		}
	}
}

// subscribe forwards bus events to ch until ctx is cancelled
func (h *Handler) subscribe(ctx context.Context, subscriber string, ch chan<- domain.Event) {
	handler := func(ctx context.Context, event domain.Event) error {
		select {
		case ch <- event:
		case <-ctx.Done():
			return ctx.Err()
		default:
			// Channel full, skip event
			h.logger.Warn("event channel full, dropping event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
		}
		return nil
	}

	if err := h.eventBus.Subscribe(ctx, exchange.EventTopic, subscriber, handler); err != nil {
		h.logger.Error("failed to subscribe to events",
			zap.String("topic", exchange.EventTopic),
			zap.Error(err))
	}
}
