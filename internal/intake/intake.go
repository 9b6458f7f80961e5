// Package intake implements the three step consultation wizard over an
// IntakeDraft. It does no I/O; the intake service persists the draft.
package intake

import (
	"errors"
	"slices"
	"strings"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

var (
	ErrProfileIncomplete = errors.New("patient name and age are required")
	ErrInvalidStep       = errors.New("invalid intake step")
	ErrInvalidIntensity  = errors.New("intensity must be Mild, Moderate or Severe")
	ErrNotSelected       = errors.New("symptom is not selected")
	ErrOutOfRange        = errors.New("index out of range")
	ErrEmptyName         = errors.New("name must not be blank")
)

// NewDraft starts a wizard for profile at the vitals step.
func NewDraft(profile model.PatientProfile) model.IntakeDraft {
	return model.IntakeDraft{
		Step:    model.StepVitals,
		Profile: profile,
		Case:    model.NewMedicalCase(profile.ID),
	}
}

type Wizard struct {
	d *model.IntakeDraft
}

func New(d *model.IntakeDraft) *Wizard {
	if d.Step < model.StepVitals || d.Step > model.StepTestsMedications {
		d.Step = model.StepVitals
	}
	normalize(&d.Case)
	return &Wizard{d: d}
}

func normalize(c *model.MedicalCase) {
	if c.SelectedSymptoms == nil {
		c.SelectedSymptoms = []model.SymptomEntry{}
	}
	if c.SelectedHistories == nil {
		c.SelectedHistories = []string{}
	}
	if c.CurrentMedications == nil {
		c.CurrentMedications = []model.CurrentMedication{}
	}
	if c.Tests == nil {
		c.Tests = []model.TestResult{}
	}
}

func (w *Wizard) Step() model.IntakeStep { return w.d.Step }

// Draft returns the state the wizard edits.
func (w *Wizard) Draft() *model.IntakeDraft { return w.d }

// Next advances one step. Leaving the vitals step needs a complete profile.
func (w *Wizard) Next() error {
	if w.d.Step >= model.StepTestsMedications {
		return ErrInvalidStep
	}
	if w.d.Step == model.StepVitals && !w.d.Profile.Complete() {
		return ErrProfileIncomplete
	}
	w.d.Step++
	return nil
}

// Back jumps to any earlier step.
func (w *Wizard) Back(step model.IntakeStep) error {
	if step < model.StepVitals || step >= w.d.Step {
		return ErrInvalidStep
	}
	w.d.Step = step
	return nil
}

// Ready reports whether the draft may be submitted.
func (w *Wizard) Ready() error {
	if !w.d.Profile.Complete() {
		return ErrProfileIncomplete
	}
	return nil
}

// SetProfile replaces the profile, keeping its id.
func (w *Wizard) SetProfile(p model.PatientProfile) {
	p.ID = w.d.Profile.ID
	w.d.Profile = p
}

func (w *Wizard) SetVitals(v model.Vitals) {
	w.d.Case.Vitals = v
}

// ToggleSymptom selects name at Moderate intensity or deselects it. It
// returns whether the symptom is selected afterwards.
func (w *Wizard) ToggleSymptom(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyName
	}
	c := &w.d.Case
	if i := w.symptomIndex(name); i >= 0 {
		c.SelectedSymptoms = slices.Delete(c.SelectedSymptoms, i, i+1)
		return false, nil
	}
	c.SelectedSymptoms = append(c.SelectedSymptoms, model.SymptomEntry{
		Name:      name,
		Intensity: model.IntensityModerate,
	})
	return true, nil
}

func (w *Wizard) SetIntensity(name string, intensity model.Intensity) error {
	if !intensity.Valid() {
		return ErrInvalidIntensity
	}
	i := w.symptomIndex(strings.TrimSpace(name))
	if i < 0 {
		return ErrNotSelected
	}
	w.d.Case.SelectedSymptoms[i].Intensity = intensity
	return nil
}

func (w *Wizard) symptomIndex(name string) int {
	return slices.IndexFunc(w.d.Case.SelectedSymptoms, func(s model.SymptomEntry) bool {
		return s.Name == name
	})
}

// ToggleHistory flips membership of name in the selected histories.
func (w *Wizard) ToggleHistory(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrEmptyName
	}
	c := &w.d.Case
	if i := slices.Index(c.SelectedHistories, name); i >= 0 {
		c.SelectedHistories = slices.Delete(c.SelectedHistories, i, i+1)
		return false, nil
	}
	c.SelectedHistories = append(c.SelectedHistories, name)
	return true, nil
}

func (w *Wizard) SetCustomSymptoms(text string) {
	w.d.Case.CustomSymptoms = text
}

func (w *Wizard) SetCustomHistory(text string) {
	w.d.Case.CustomHistory = text
}

func (w *Wizard) AddMedication(m model.CurrentMedication) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return ErrEmptyName
	}
	w.d.Case.CurrentMedications = append(w.d.Case.CurrentMedications, m)
	return nil
}

func (w *Wizard) RemoveMedication(index int) error {
	c := &w.d.Case
	if index < 0 || index >= len(c.CurrentMedications) {
		return ErrOutOfRange
	}
	c.CurrentMedications = slices.Delete(c.CurrentMedications, index, index+1)
	return nil
}

func (w *Wizard) AddTest(t model.TestResult) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return ErrEmptyName
	}
	w.d.Case.Tests = append(w.d.Case.Tests, t)
	return nil
}

func (w *Wizard) RemoveTest(index int) error {
	c := &w.d.Case
	if index < 0 || index >= len(c.Tests) {
		return ErrOutOfRange
	}
	c.Tests = slices.Delete(c.Tests, index, index+1)
	return nil
}

// Reset clears the case and returns to the first step. The profile stays.
func (w *Wizard) Reset() {
	w.d.Step = model.StepVitals
	w.d.Case = model.NewMedicalCase(w.d.Profile.ID)
}
