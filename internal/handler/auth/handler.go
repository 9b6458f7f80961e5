package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/service/auth"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc  *auth.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc *auth.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/admin/login", h.AdminLogin)
		auth.POST("/logout", h.auth.Authenticate(), h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, user)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	resp, err := h.svc.LoginUser(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	resp, err := h.svc.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), c.GetString(middleware.ContextSessionID)); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{"view": model.ViewUnauthenticated})
}
