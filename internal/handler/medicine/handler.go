package medicine

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/service/medicine"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc *medicine.Service
}

func NewHandler(svc *medicine.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/medicines/search", h.Search)
}

func (h *Handler) Search(c *gin.Context) {
	result, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
