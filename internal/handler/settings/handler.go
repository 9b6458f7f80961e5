package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/service/settings"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

// Handler serves the read side of the settings to every signed-in user.
type Handler struct {
	svc *settings.Service
}

func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.Get)
	r.GET("/themes", h.Themes)
	r.GET("/themes/active", h.ActiveTheme)
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, s)
}

func (h *Handler) Themes(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.svc.Themes())
}

func (h *Handler) ActiveTheme(c *gin.Context) {
	theme, err := h.svc.ActiveTheme(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, theme)
}
