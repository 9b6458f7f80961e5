package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

func patient() (*Machine, *model.NavState) {
	state := Start(false)
	return New(&state, false), &state
}

func TestStart(t *testing.T) {
	s := Start(false)
	assert.Equal(t, model.ViewHome, New(&s, false).Current())

	a := Start(true)
	assert.Equal(t, model.ViewAdmin, New(&a, true).Current())
}

func TestNavigateToIsMutuallyExclusive(t *testing.T) {
	m, state := patient()

	tests := []struct {
		name string
		view model.View
	}{
		{"search", model.ViewSearch},
		{"order", model.ViewOrder},
		{"price list", model.ViewPriceList},
		{"history", model.ViewHistory},
		{"profile", model.ViewProfile},
		{"home", model.ViewHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.NavigateTo(tt.view)
			require.NoError(t, err)
			assert.Equal(t, tt.view, got)
			assert.Equal(t, tt.view, state.View)
			assert.Equal(t, tt.view, state.History[len(state.History)-1])
		})
	}
}

func TestNavigateRejects(t *testing.T) {
	m, state := patient()

	_, err := m.NavigateTo(model.ViewAdmin)
	assert.ErrorIs(t, err, ErrForbiddenView)
	_, err = m.NavigateTo(model.ViewPrescriptionResult)
	assert.ErrorIs(t, err, ErrInvalidView)
	_, err = m.NavigateTo("nowhere")
	assert.ErrorIs(t, err, ErrInvalidView)
	assert.Equal(t, []model.View{model.ViewHome}, state.History)

	out := Unauthenticated()
	_, err = New(&out, false).NavigateTo(model.ViewHome)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNavigateSameViewPushesOnce(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewSearch)
	_, _ = m.NavigateTo(model.ViewSearch)
	assert.Equal(t, []model.View{model.ViewHome, model.ViewSearch}, state.History)
}

func TestBackPopsAndClearsPrescription(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewPriceList)
	_, _ = m.NavigateTo(model.ViewOrder)

	view, err := m.Back()
	require.NoError(t, err)
	assert.Equal(t, model.ViewPriceList, view)

	_, _ = m.ShowPrescription(model.Prescription{Diagnosis: "flu"})
	assert.Equal(t, model.ViewPrescriptionResult, m.Current())

	view, err = m.Back()
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, view)
	assert.Nil(t, state.Prescription)

	view, err = m.Back()
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, view)
	assert.Equal(t, []model.View{model.ViewHome}, state.History)
}

func TestReplayDoesNotPush(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewSearch)

	view, err := m.Replay(model.ViewHistory)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHistory, view)
	assert.Equal(t, []model.View{model.ViewHome, model.ViewSearch}, state.History)
}

func TestResetToHome(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewHistory)
	_, _ = m.ShowPrescription(model.Prescription{Diagnosis: "cold"})
	_, _ = m.NavigateTo(model.ViewSearch)
	assert.Nil(t, state.Prescription)

	view, err := m.ResetToHome()
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, view)
	assert.Equal(t, []model.View{model.ViewHome}, state.History)
}

func TestOrderNowPrefillsUntilLeavingOrder(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewPriceList)

	view, err := m.OrderNow("Napa 500")
	require.NoError(t, err)
	assert.Equal(t, model.ViewOrder, view)
	assert.Equal(t, "Napa 500", state.PrefillMedicine)

	_, _ = m.Back()
	assert.Empty(t, state.PrefillMedicine)
}

func TestLogout(t *testing.T) {
	m, state := patient()
	_, _ = m.NavigateTo(model.ViewOrder)
	m.Logout()
	assert.Equal(t, model.ViewUnauthenticated, m.Current())
	assert.Empty(t, state.History)

	_, err := m.Back()
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAdminMayVisitPatientViews(t *testing.T) {
	state := Start(true)
	m := New(&state, true)

	view, err := m.NavigateTo(model.ViewHome)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, view)

	view, err = m.Back()
	require.NoError(t, err)
	assert.Equal(t, model.ViewAdmin, view)
}
