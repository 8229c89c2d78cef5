package middleware

import (
	"encoding/json"
	"log/slog"
	"slices"
	"time"

	"github.com/arturoeanton/go-commit-annotator/internal/domain"
	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(actor, action, resource, resourceID, details, ip, userAgent string) error
}

// auditedParams are the route params recorded as the audit resource id, in order.
var auditedParams = []string{"sessionId", "sha"}

// AuditMiddleware writes one audit row per request, after the handler ran.
// The resource is the matched route pattern so session ids never fan out into
// distinct resources. Paths in skip (e.g. health checks) are not audited.
func AuditMiddleware(writer AuditWriter, skip ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if slices.Contains(skip, c.Path()) {
			return c.Next()
		}
		start := time.Now()

		err := c.Next()

		// Fiber reuses the context after return; copy everything the goroutine needs.
		var resourceID string
		for _, name := range auditedParams {
			if v := c.Params(name); v != "" {
				resourceID = string([]byte(v))
				break
			}
		}
		route := string([]byte(c.Route().Path))
		actor := Actor(c)
		ip := string([]byte(c.IP()))
		userAgent := string([]byte(c.Get("User-Agent")))
		details, _ := json.Marshal(map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		})

		go func() {
			if writeErr := writer.WriteAudit(actor, domain.AuditActionHTTPRequest, route, resourceID, string(details), ip, userAgent); writeErr != nil {
				slog.Error("failed to write audit log", "route", route, "error", writeErr)
			}
		}()

		return err
	}
}
