package pricelist

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/service/pricelist"
	"github.com/jwalitptl/mediconsult-api/internal/service/session"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc      *pricelist.Service
	sessions *session.Service
}

func NewHandler(svc *pricelist.Service, sessions *session.Service) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prices := r.Group("/prices")
	{
		prices.GET("", h.List)
		prices.POST("/:id/order", h.OrderNow)
	}
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

// OrderNow opens the order form pre-filled with the item's name.
func (h *Handler) OrderNow(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	view, err := h.sessions.OrderNow(c.Request.Context(), c.GetString(middleware.ContextSessionID), item.Name)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, view)
}
