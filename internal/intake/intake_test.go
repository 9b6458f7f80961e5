package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

func draft(name, age string) *model.IntakeDraft {
	p := model.NewProfile("482913", name)
	p.Age = age
	d := NewDraft(p)
	return &d
}

func TestNextRequiresCompleteProfile(t *testing.T) {
	tests := []struct {
		name    string
		patient string
		age     string
		wantErr error
	}{
		{"complete", "Rahim", "34", nil},
		{"missing age", "Rahim", "", ErrProfileIncomplete},
		{"blank name", "   ", "34", ErrProfileIncomplete},
		{"blank age", "Rahim", " ", ErrProfileIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft(tt.patient, tt.age)
			err := New(d).Next()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, model.StepVitals, d.Step)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.StepSymptomsHistory, d.Step)
		})
	}
}

func TestStepBounds(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)

	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.ErrorIs(t, w.Next(), ErrInvalidStep)

	assert.ErrorIs(t, w.Back(model.StepTestsMedications), ErrInvalidStep)
	assert.ErrorIs(t, w.Back(0), ErrInvalidStep)
	require.NoError(t, w.Back(model.StepVitals))
	assert.Equal(t, model.StepVitals, w.Step())
}

func TestToggleSymptom(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)

	on, err := w.ToggleSymptom("জ্বর")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []model.SymptomEntry{{Name: "জ্বর", Intensity: model.IntensityModerate}}, d.Case.SelectedSymptoms)

	require.NoError(t, w.SetIntensity("জ্বর", model.IntensitySevere))
	assert.Equal(t, model.IntensitySevere, d.Case.SelectedSymptoms[0].Intensity)
	assert.ErrorIs(t, w.SetIntensity("জ্বর", "Extreme"), ErrInvalidIntensity)
	assert.ErrorIs(t, w.SetIntensity("কাশি", model.IntensityMild), ErrNotSelected)

	on, err = w.ToggleSymptom("জ্বর")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, d.Case.SelectedSymptoms)

	_, err = w.ToggleSymptom(" ")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestToggleHistory(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)

	_, _ = w.ToggleHistory("ডায়াবেটিস")
	_, _ = w.ToggleHistory("হাঁপানি")
	on, err := w.ToggleHistory("ডায়াবেটিস")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"হাঁপানি"}, d.Case.SelectedHistories)
}

func TestMedicationsAndTests(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)

	require.NoError(t, w.AddMedication(model.CurrentMedication{Name: "Napa", Dosage: "1+0+1"}))
	require.NoError(t, w.AddMedication(model.CurrentMedication{Name: "Seclo"}))
	assert.ErrorIs(t, w.AddMedication(model.CurrentMedication{Name: ""}), ErrEmptyName)
	require.NoError(t, w.RemoveMedication(0))
	assert.Equal(t, "Seclo", d.Case.CurrentMedications[0].Name)
	assert.ErrorIs(t, w.RemoveMedication(3), ErrOutOfRange)

	require.NoError(t, w.AddTest(model.TestResult{Name: "CBC", Result: "normal"}))
	assert.ErrorIs(t, w.RemoveTest(-1), ErrOutOfRange)
	require.NoError(t, w.RemoveTest(0))
	assert.Empty(t, d.Case.Tests)
}

func TestResetKeepsProfile(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)
	require.NoError(t, w.Next())
	_, _ = w.ToggleSymptom("কাশি")
	w.SetCustomSymptoms("night sweats")

	w.Reset()

	assert.Equal(t, model.StepVitals, d.Step)
	assert.Equal(t, "Rahim", d.Profile.Name)
	assert.Equal(t, model.NewMedicalCase("482913"), d.Case)
}

func TestNewRepairsDraft(t *testing.T) {
	d := &model.IntakeDraft{Step: 9}
	w := New(d)
	assert.Equal(t, model.StepVitals, w.Step())
	assert.NotNil(t, d.Case.Tests)
	assert.ErrorIs(t, w.Ready(), ErrProfileIncomplete)
}

func TestSetProfileKeepsID(t *testing.T) {
	d := draft("Rahim", "34")
	w := New(d)
	w.SetProfile(model.PatientProfile{ID: "other", Name: "Karim", Age: "40"})
	assert.Equal(t, "482913", d.Profile.ID)
	assert.Equal(t, "Karim", d.Profile.Name)
	assert.NoError(t, w.Ready())
}
