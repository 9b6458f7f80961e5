package model

// Intensity of a selected symptom
type Intensity string

const (
	IntensityMild     Intensity = "Mild"
	IntensityModerate Intensity = "Moderate"
	IntensitySevere   Intensity = "Severe"
)

func (i Intensity) Valid() bool {
	switch i {
	case IntensityMild, IntensityModerate, IntensitySevere:
		return true
	}
	return false
}

type Vitals struct {
	Weight string `json:"weight,omitempty"`
	Height string `json:"height,omitempty"`
	BP     string `json:"bp,omitempty"`
	Pulse  string `json:"pulse,omitempty"`
	Temp   string `json:"temp,omitempty"`
}

type SymptomEntry struct {
	Name      string    `json:"name"`
	Intensity Intensity `json:"intensity" binding:"required,intensity"`
}

type CurrentMedication struct {
	Name   string `json:"name" binding:"required"`
	Dosage string `json:"dosage"`
}

type TestResult struct {
	Name        string `json:"name" binding:"required"`
	Result      string `json:"result"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// MedicalCase is the transient consultation input collected by the intake
// wizard.
type MedicalCase struct {
	PatientID          string              `json:"patientId"`
	Vitals             Vitals              `json:"vitals"`
	SelectedSymptoms   []SymptomEntry      `json:"selectedSymptoms"`
	CustomSymptoms     string              `json:"customSymptoms"`
	SelectedHistories  []string            `json:"selectedHistories"`
	CustomHistory      string              `json:"customHistory"`
	CurrentMedications []CurrentMedication `json:"currentMedications"`
	Tests              []TestResult        `json:"tests"`
}

func NewMedicalCase(patientID string) MedicalCase {
	return MedicalCase{
		PatientID:          patientID,
		SelectedSymptoms:   []SymptomEntry{},
		SelectedHistories:  []string{},
		CurrentMedications: []CurrentMedication{},
		Tests:              []TestResult{},
	}
}

// IntakeBackRequest returns the wizard to an earlier step
type IntakeBackRequest struct {
	Step IntakeStep `json:"step" binding:"required,min=1,max=3"`
}

// ToggleRequest selects or deselects a symptom or history entry by name
type ToggleRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

type SetIntensityRequest struct {
	Name      string    `json:"name" binding:"required"`
	Intensity Intensity `json:"intensity" binding:"required,intensity"`
}

// CustomTextRequest replaces a free-text field of the case
type CustomTextRequest struct {
	Text string `json:"text"`
}

// ToggleResult reports the selection state after a toggle
type ToggleResult struct {
	Selected bool        `json:"selected"`
	Draft    IntakeDraft `json:"draft"`
}

// IntakeView is the wizard state returned to clients
type IntakeView struct {
	IntakeDraft
	Busy bool `json:"busy"`
}
