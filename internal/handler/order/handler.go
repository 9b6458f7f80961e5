package order

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/service/order"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

// ProfileSource resolves the patient profile of a session.
type ProfileSource interface {
	Profile(ctx context.Context, sessionID string) (*model.PatientProfile, error)
}

type Handler struct {
	svc      *order.Service
	profiles ProfileSource
}

func NewHandler(svc *order.Service, profiles ProfileSource) *Handler {
	return &Handler{svc: svc, profiles: profiles}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.GET("", h.List)
		orders.POST("", h.Place)
		orders.POST("/:id/messages", h.SendMessage)
	}
}

// List returns the caller's orders and unread counter.
func (h *Handler) List(c *gin.Context) {
	thread, err := h.svc.Thread(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, thread)
}

func (h *Handler) Place(c *gin.Context) {
	var req model.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	session := middleware.CurrentSession(c)
	profile, err := h.profiles.Profile(c.Request.Context(), session.ID)
	if errors.Is(err, repository.ErrNotFound) {
		fallback := model.NewProfile(session.UserID, session.Name)
		profile, err = &fallback, nil
	}
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	o, err := h.svc.PlaceOrder(c.Request.Context(), *profile, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, o)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	owner := c.GetString(middleware.ContextUserID)
	o, delivered, err := h.svc.SendMessage(c.Request.Context(), c.Param("id"), model.SenderUser, owner, req.Text)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.MessageResult{Delivered: delivered, Order: o})
}
