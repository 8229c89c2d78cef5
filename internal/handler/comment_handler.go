package handler

import (
	"github.com/arturoeanton/go-commit-annotator/internal/middleware"
	"github.com/arturoeanton/go-commit-annotator/internal/port"
	"github.com/arturoeanton/go-commit-annotator/internal/service"
	"github.com/gofiber/fiber/v3"
)

// CommentHandler exposes the comment preview/edit/publish pipeline.
type CommentHandler struct {
	comments *service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Register sets up comment routes on a token-protected group.
func (h *CommentHandler) Register(api fiber.Router) {
	commits := api.Group("/repos/:owner/:repo/commits/:sha")
	commits.Post("/preview-comments", h.Preview)
	commits.Post("/apply-comments", h.ApplyAndPush)

	sessions := api.Group("/comments/session")
	sessions.Get("/:sessionId", h.GetSession)
	sessions.Put("/:sessionId", h.UpdateSession)
	sessions.Post("/:sessionId/push", h.PushSession)
	sessions.Delete("/:sessionId", h.DeleteSession)
}

// Preview generates comments for a commit and opens a staging session.
func (h *CommentHandler) Preview(c fiber.Ctx) error {
	preview, err := h.comments.Preview(c.Context(),
		middleware.GetGitHubToken(c),
		c.Params("owner"), c.Params("repo"), c.Params("sha"),
		c.Query("branch", "main"),
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(preview)
}

// GetSession returns the currently staged files of a session.
func (h *CommentHandler) GetSession(c fiber.Ctx) error {
	sess, err := h.comments.Session(c.Context(), c.Params("sessionId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"session":    sess,
		"expires_at": sess.ExpiresAt(),
	})
}

// UpdateSession replaces a session's staged files.
func (h *CommentHandler) UpdateSession(c fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var body struct {
		SessionID    string            `json:"session_id"`
		UpdatedFiles map[string]string `json:"updated_files"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return errorResponse(c, port.Validationf("invalid body"))
	}
	if body.SessionID != sessionID {
		return errorResponse(c, port.Validationf("session id does not match path"))
	}

	if err := h.comments.UpdateSession(c.Context(), sessionID, body.UpdatedFiles); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":            true,
		"message":            "session files updated",
		"session_id":         sessionID,
		"updated_file_count": len(body.UpdatedFiles),
	})
}

// PushSession publishes a session as one commit.
func (h *CommentHandler) PushSession(c fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	result, err := h.comments.Publish(c.Context(), sessionID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    result.Message,
		"session_id": sessionID,
		"result":     result,
	})
}

// DeleteSession discards a session.
func (h *CommentHandler) DeleteSession(c fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if err := h.comments.DeleteSession(c.Context(), sessionID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "session deleted",
		"session_id": sessionID,
	})
}

// ApplyAndPush annotates and commits without a review step.
func (h *CommentHandler) ApplyAndPush(c fiber.Ctx) error {
	sha := c.Params("sha")
	branch := c.Query("branch", "main")
	result, err := h.comments.PublishDirect(c.Context(),
		middleware.GetGitHubToken(c),
		c.Params("owner"), c.Params("repo"), sha, branch,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"success":         true,
		"message":         result.Message,
		"original_commit": sha,
		"branch":          branch,
		"result":          result,
	})
}

// errorResponse maps an error kind to an HTTP status.
func errorResponse(c fiber.Ctx, err error) error {
	kind := port.KindOf(err)

	status := fiber.StatusInternalServerError
	switch kind {
	case port.KindValidation, port.KindNothingToPublish:
		status = fiber.StatusBadRequest
	case port.KindSessionNotFound, port.KindSessionExpired:
		status = fiber.StatusNotFound
	case port.KindRemoteAPI:
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"kind":    kind.String(),
	})
}
