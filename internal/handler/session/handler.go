package session

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/service/session"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc *session.Service
}

func NewHandler(svc *session.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/session")
	{
		sessions.GET("", h.Get)
		sessions.POST("/navigate", h.Navigate)
		sessions.POST("/replay", h.Replay)
		sessions.POST("/back", h.Back)
		sessions.POST("/home", h.Home)
	}
}

func (h *Handler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) Navigate(c *gin.Context) {
	var req model.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	view, err := h.svc.Navigate(c.Request.Context(), c.GetString(middleware.ContextSessionID), req.View)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

// Replay applies a browser forward/back step without recording a new one.
func (h *Handler) Replay(c *gin.Context) {
	var req model.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	view, err := h.svc.Replay(c.Request.Context(), c.GetString(middleware.ContextSessionID), req.View)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) Back(c *gin.Context) {
	view, err := h.svc.Back(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}

func (h *Handler) Home(c *gin.Context) {
	view, err := h.svc.Home(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}
