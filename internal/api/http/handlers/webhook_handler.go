package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/api/dto"
	"github.com/ghostsync/member-sync/internal/events"
)

// WebhookHandler receives membership-change notifications. The sender
// enforces a short response-time budget, so the handler only validates the
// payload and enqueues the work; it answers 200 no matter what.
type WebhookHandler struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(dispatcher events.Dispatcher, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, logger: logger}
}

// MemberChanged handles POST /webhook/ghost.
func (h *WebhookHandler) MemberChanged(c *fiber.Ctx) error {
	var req dto.MemberChangedRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		h.logger.Error("malformed webhook payload", zap.Error(err))
		return c.SendString("OK")
	}

	memberID := req.Member.Current.ID
	if memberID == "" {
		h.logger.Error("webhook payload missing member id")
		return c.SendString("OK")
	}

	_ = h.dispatcher.Publish(c.UserContext(), events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventMemberChanged,
		MemberID:  memberID,
		Timestamp: time.Now().UTC(),
	})

	return c.SendString("OK")
}
