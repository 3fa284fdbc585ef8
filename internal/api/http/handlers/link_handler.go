package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ghostsync/member-sync/internal/service"
	"github.com/ghostsync/member-sync/pkg/util"
)

// LinkHandler serves the OAuth linking redirect.
type LinkHandler struct {
	sync   *service.SyncService
	logger *zap.Logger
}

// NewLinkHandler constructs handler.
func NewLinkHandler(syncService *service.SyncService, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{sync: syncService, logger: logger}
}

// Return handles GET /auth/discord/return. The response body is plain text:
// the reader is a person finishing the OAuth flow in a browser tab.
func (h *LinkHandler) Return(c *fiber.Ctx) error {
	code := c.Query("code")
	memberUUID := c.Query("state")
	if code == "" || memberUUID == "" {
		return c.Status(http.StatusBadRequest).SendString("Invalid request")
	}

	if err := h.sync.CompleteLink(c.UserContext(), code, memberUUID); err != nil {
		domainErr := util.ToDomainError(err)
		if domainErr.HTTPStatus >= http.StatusInternalServerError {
			h.logger.Error("linking flow failed",
				zap.String("member_uuid", memberUUID),
				zap.String("code", domainErr.Code),
				zap.Error(domainErr))
			return c.Status(http.StatusInternalServerError).SendString("Internal server error")
		}
		h.logger.Warn("linking flow rejected",
			zap.String("member_uuid", memberUUID),
			zap.String("code", domainErr.Code),
			zap.Error(domainErr))
		return c.Status(http.StatusBadRequest).SendString("Invalid request")
	}

	return c.SendString("Discord verified. You may now close this window.")
}
