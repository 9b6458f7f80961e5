// Package admin serves the configuration surface reserved for the
// administrator session.
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/service/auth"
	"github.com/jwalitptl/mediconsult-api/internal/service/history"
	"github.com/jwalitptl/mediconsult-api/internal/service/order"
	"github.com/jwalitptl/mediconsult-api/internal/service/pricelist"
	"github.com/jwalitptl/mediconsult-api/internal/service/settings"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	settings  *settings.Service
	prices    *pricelist.Service
	orders    *order.Service
	accounts  *auth.Service
	histories *history.Service
}

func NewHandler(settings *settings.Service, prices *pricelist.Service, orders *order.Service,
	accounts *auth.Service, histories *history.Service) *Handler {
	return &Handler{
		settings:  settings,
		prices:    prices,
		orders:    orders,
		accounts:  accounts,
		histories: histories,
	}
}

// RegisterRoutes expects r to be guarded by an admin check already.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/theme", h.SetTheme)
	r.PUT("/banners/:slot", h.SetBanner)
	r.DELETE("/banners/:slot", h.ClearBanner)
	r.PUT("/doctor", h.UpdateDoctor)
	r.PUT("/branding", h.UpdateBranding)

	lists := r.Group("/lists")
	{
		lists.POST("/:list", h.AddListItem)
		lists.DELETE("/:list", h.RemoveListItem)
	}

	prices := r.Group("/prices")
	{
		prices.GET("", h.ListPrices)
		prices.POST("", h.UpsertPrice)
		prices.DELETE("/:id", h.DeletePrice)
	}

	orders := r.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.PUT("/:id/status", h.SetOrderStatus)
		orders.POST("/:id/messages", h.Reply)
	}

	r.GET("/history", h.ListHistory)
	r.PUT("/credentials", h.ChangeCredentials)
	r.GET("/users", h.ListUsers)
	r.DELETE("/users/:userId", h.DeleteUser)
}

func (h *Handler) respondSettings(c *gin.Context, s model.AppSettings, err error) {
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, s)
}

func (h *Handler) SetTheme(c *gin.Context) {
	var req model.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	s, err := h.settings.SetTheme(c.Request.Context(), req.ThemeID)
	h.respondSettings(c, s, err)
}

func (h *Handler) SetBanner(c *gin.Context) {
	var req model.UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	s, err := h.settings.SetBanner(c.Request.Context(), model.BannerSlot(c.Param("slot")), req.Image)
	h.respondSettings(c, s, err)
}

func (h *Handler) ClearBanner(c *gin.Context) {
	s, err := h.settings.SetBanner(c.Request.Context(), model.BannerSlot(c.Param("slot")), "")
	h.respondSettings(c, s, err)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var req model.DoctorDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	s, err := h.settings.UpdateDoctor(c.Request.Context(), req)
	h.respondSettings(c, s, err)
}

func (h *Handler) UpdateBranding(c *gin.Context) {
	var req model.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	s, err := h.settings.UpdateBranding(c.Request.Context(), &req)
	h.respondSettings(c, s, err)
}

func (h *Handler) AddListItem(c *gin.Context) {
	var req model.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	s, err := h.settings.AddListItem(c.Request.Context(), model.ListName(c.Param("list")), req.Item)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, s)
}

// RemoveListItem takes the item from the query string: ?item=...
func (h *Handler) RemoveListItem(c *gin.Context) {
	s, err := h.settings.RemoveListItem(c.Request.Context(), model.ListName(c.Param("list")), c.Query("item"))
	h.respondSettings(c, s, err)
}

func (h *Handler) ListPrices(c *gin.Context) {
	items, err := h.prices.List(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, items)
}

func (h *Handler) UpsertPrice(c *gin.Context) {
	var req model.UpsertPriceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	item, err := h.prices.Upsert(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, item)
}

func (h *Handler) DeletePrice(c *gin.Context) {
	if err := h.prices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"id": c.Param("id")})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), "")
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, orders)
}

func (h *Handler) SetOrderStatus(c *gin.Context) {
	var req model.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	o, err := h.orders.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, o)
}

func (h *Handler) Reply(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	o, delivered, err := h.orders.SendMessage(c.Request.Context(), c.Param("id"), model.SenderAdmin, "", req.Text)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.MessageResult{Delivered: delivered, Order: o})
}

func (h *Handler) ListHistory(c *gin.Context) {
	entries, err := h.histories.List(c.Request.Context(), "")
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, entries)
}

func (h *Handler) ChangeCredentials(c *gin.Context) {
	var req model.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	if err := h.accounts.ChangeAdminCredentials(c.Request.Context(), &req); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"userId": req.UserID})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.accounts.ListUsers(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, users)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"userId": c.Param("userId")})
}
