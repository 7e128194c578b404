package comment

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/guard"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/logger"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/metrics"
	"github.com/LuisFaxas/p5-full-stacked-finalproject-server/internal/middleware"
)

// CommentStore is the persistence surface the handler needs.
type CommentStore interface {
	Insert(ctx context.Context, postID, creatorID, text string) (*Comment, error)
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)
	UpdateText(ctx context.Context, id, text string) (*Comment, error)
	Delete(ctx context.Context, id string) error
}

// PostChecker reports whether the parent post exists.
type PostChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Handler struct {
	comments CommentStore
	posts    PostChecker
	metrics  *metrics.Collector
}

func NewHandler(comments CommentStore, posts PostChecker, m *metrics.Collector) *Handler {
	return &Handler{comments: comments, posts: posts, metrics: m}
}

// RegisterRoutes mounts the comment routes. requireAuth guards every
// mutating route; listing is public.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/posts/:postId/comments", h.list)

	authed := r.Group("/posts/:postId/comments")
	authed.Use(requireAuth)
	authed.POST("", h.create)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	comments, err := h.comments.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

type createRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) create(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "text is required"})
		return
	}

	postID := c.Param("postId")
	exists, err := h.posts.Exists(c.Request.Context(), postID)
	if err != nil {
		serverError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	// The creator is always the verified principal, never the body.
	created, err := h.comments.Insert(c.Request.Context(), postID, principal.ID, req.Text)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

type updateRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "text is required"})
		return
	}

	updated, err := h.comments.UpdateText(c.Request.Context(), c.Param("id"), req.Text)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFromContext(c.Request.Context())
	commentID := c.Param("id")

	err := guard.Gated(c.Request.Context(), principal,
		func(ctx context.Context) (guard.Owned, error) {
			found, err := h.comments.GetByID(ctx, commentID)
			if errors.Is(err, ErrNotFound) {
				// a missing resource is a guard decision, not a store failure
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			return found, nil
		},
		func(ctx context.Context) error {
			return h.comments.Delete(ctx, commentID)
		},
	)

	switch {
	case err == nil:
		h.metrics.RecordOwnershipDecision("allow")
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	case errors.Is(err, guard.ErrNotFound), errors.Is(err, ErrNotFound):
		h.metrics.RecordOwnershipDecision("not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
	case errors.Is(err, guard.ErrUnauthenticated):
		h.metrics.RecordOwnershipDecision("unauthenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, guard.ErrForbidden):
		h.metrics.RecordOwnershipDecision("forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "not the comment owner"})
	default:
		serverError(c, err)
	}
}

func serverError(c *gin.Context, err error) {
	logger.Error("comment handler failure", map[string]any{
		"path":  c.FullPath(),
		"error": err.Error(),
	})
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
