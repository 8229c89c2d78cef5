package handler

import (
	"strconv"

	"github.com/arturoeanton/go-commit-annotator/internal/adapter/store"
	"github.com/gofiber/fiber/v3"
)

// AuditHandler handles audit log endpoints.
type AuditHandler struct {
	store *store.PostgresStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(store *store.PostgresStore) *AuditHandler {
	return &AuditHandler{store: store}
}

// Register sets up audit routes.
func (h *AuditHandler) Register(router fiber.Router) {
	audit := router.Group("/audit")
	audit.Get("/logs", h.ListLogs)
	audit.Get("/publishes", h.ListPublishes)
}

// maxListLimit caps every audit listing.
const maxListLimit = 500

// listLimit reads ?limit=, defaulting to 100 and clamping to [1, maxListLimit].
func listLimit(c fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	switch {
	case err != nil || limit <= 0:
		return 100
	case limit > maxListLimit:
		return maxListLimit
	}
	return limit
}

// ListLogs returns audit logs, optionally filtered by ?action=.
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	logs, err := h.store.ListAuditLogs(c.Context(), listLimit(c), c.Query("action"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

// ListPublishes returns recently published comment commits, optionally scoped
// to ?owner=&repo=.
func (h *AuditHandler) ListPublishes(c fiber.Ctx) error {
	records, err := h.store.ListPublishRecords(c.Context(), c.Query("owner"), c.Query("repo"), listLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"publishes": records,
		"count":     len(records),
	})
}
