package history

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/service/history"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc *history.Service
}

func NewHandler(svc *history.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	entries := r.Group("/history")
	{
		entries.GET("", h.List)
		entries.POST("/:id/open", h.Open)
		entries.DELETE("/:id", h.Remove)
	}
}

// owner limits a patient to their own entries. The admin sees all of them.
func owner(c *gin.Context) string {
	if s := middleware.CurrentSession(c); s != nil && s.IsAdmin {
		return ""
	}
	return c.GetString(middleware.ContextUserID)
}

func (h *Handler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), owner(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}

func (h *Handler) Open(c *gin.Context) {
	entry, err := h.svc.Open(c.Request.Context(), c.GetString(middleware.ContextSessionID), c.Param("id"), owner(c))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entry)
}

func (h *Handler) Remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id"), owner(c)); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": c.Param("id")})
}
