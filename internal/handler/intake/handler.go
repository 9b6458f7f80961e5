package intake

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/mediconsult-api/internal/handler"
	"github.com/jwalitptl/mediconsult-api/internal/intake"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	intakesvc "github.com/jwalitptl/mediconsult-api/internal/service/intake"
	apperrors "github.com/jwalitptl/mediconsult-api/pkg/errors"
	"github.com/jwalitptl/mediconsult-api/pkg/httputil"
)

type Handler struct {
	svc *intakesvc.Service
}

func NewHandler(svc *intakesvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}

	wizard := r.Group("/intake")
	{
		wizard.GET("", h.Get)
		wizard.POST("/next", h.Next)
		wizard.POST("/back", h.Back)
		wizard.PUT("/profile", h.SetProfile)
		wizard.PUT("/vitals", h.SetVitals)
		wizard.POST("/symptoms/toggle", h.ToggleSymptom)
		wizard.PUT("/symptoms/intensity", h.SetIntensity)
		wizard.PUT("/symptoms/custom", h.SetCustomSymptoms)
		wizard.POST("/histories/toggle", h.ToggleHistory)
		wizard.PUT("/histories/custom", h.SetCustomHistory)
		wizard.POST("/medications", h.AddMedication)
		wizard.DELETE("/medications/:index", h.RemoveMedication)
		wizard.POST("/tests", h.AddTest)
		wizard.DELETE("/tests/:index", h.RemoveTest)
		wizard.POST("/reset", h.Reset)
		wizard.POST("/submit", h.Submit)
	}
}

func (h *Handler) respond(c *gin.Context, draft *model.IntakeDraft, err error) {
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	sid := c.GetString(middleware.ContextSessionID)
	httputil.RespondWithSuccess(c, model.IntakeView{IntakeDraft: *draft, Busy: h.svc.Busy(sid)})
}

func (h *Handler) edit(c *gin.Context, fn func(*intake.Wizard) error) {
	draft, err := h.svc.Edit(c.Request.Context(), c.GetString(middleware.ContextSessionID), fn)
	h.respond(c, draft, err)
}

func (h *Handler) Get(c *gin.Context) {
	draft, err := h.svc.Draft(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	h.respond(c, draft, err)
}

func (h *Handler) Next(c *gin.Context) {
	h.edit(c, (*intake.Wizard).Next)
}

func (h *Handler) Back(c *gin.Context) {
	var req model.IntakeBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.Back(req.Step) })
}

// SetProfile edits the wizard's copy of the profile. It is stored on submit.
func (h *Handler) SetProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error {
		w.SetProfile(req.Apply(w.Draft().Profile))
		return nil
	})
}

func (h *Handler) SetVitals(c *gin.Context) {
	var req model.Vitals
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error {
		w.SetVitals(req)
		return nil
	})
}

func (h *Handler) ToggleSymptom(c *gin.Context) {
	h.toggle(c, (*intake.Wizard).ToggleSymptom)
}

func (h *Handler) ToggleHistory(c *gin.Context) {
	h.toggle(c, (*intake.Wizard).ToggleHistory)
}

func (h *Handler) toggle(c *gin.Context, fn func(*intake.Wizard, string) (bool, error)) {
	var req model.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	var selected bool
	draft, err := h.svc.Edit(c.Request.Context(), c.GetString(middleware.ContextSessionID), func(w *intake.Wizard) error {
		var err error
		selected, err = fn(w, req.Name)
		return err
	})
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, model.ToggleResult{Selected: selected, Draft: *draft})
}

func (h *Handler) SetIntensity(c *gin.Context) {
	var req model.SetIntensityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.SetIntensity(req.Name, req.Intensity) })
}

func (h *Handler) SetCustomSymptoms(c *gin.Context) {
	var req model.CustomTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error {
		w.SetCustomSymptoms(req.Text)
		return nil
	})
}

func (h *Handler) SetCustomHistory(c *gin.Context) {
	var req model.CustomTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error {
		w.SetCustomHistory(req.Text)
		return nil
	})
}

func (h *Handler) AddMedication(c *gin.Context) {
	var req model.CurrentMedication
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.AddMedication(req) })
}

func (h *Handler) RemoveMedication(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.RemoveMedication(index) })
}

func (h *Handler) AddTest(c *gin.Context) {
	var req model.TestResult
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.AddTest(req) })
}

func (h *Handler) RemoveTest(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.edit(c, func(w *intake.Wizard) error { return w.RemoveTest(index) })
}

func (h *Handler) Reset(c *gin.Context) {
	h.edit(c, func(w *intake.Wizard) error {
		w.Reset()
		return nil
	})
}

// Submit blocks until the prescription is generated.
func (h *Handler) Submit(c *gin.Context) {
	entry, err := h.svc.Submit(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, entry)
}

func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Profile(c.Request.Context(), c.GetString(middleware.ContextSessionID))
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

// UpdateProfile saves the profile without starting a consultation.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	profile, err := h.svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.ContextSessionID), &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, profile)
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("index must be a number", err))
		return 0, false
	}
	return index, true
}
