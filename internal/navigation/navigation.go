// Package navigation is the view state machine of a client session. It has
// no knowledge of HTTP or of any platform history API: callers bind Back and
// Replay to whatever back/forward primitive they have.
package navigation

import (
	"errors"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

var (
	ErrUnauthenticated = errors.New("session is not authenticated")
	ErrInvalidView     = errors.New("unknown view")
	ErrForbiddenView   = errors.New("view requires an admin session")
)

// Start returns the state right after login.
func Start(isAdmin bool) model.NavState {
	root := model.ViewHome
	history := []model.View{model.ViewHome}
	if isAdmin {
		root = model.ViewAdmin
		history = append(history, model.ViewAdmin)
	}
	return model.NavState{View: root, History: history}
}

// Unauthenticated returns the state of a logged out client.
func Unauthenticated() model.NavState {
	return model.NavState{View: model.ViewUnauthenticated}
}

// Machine applies transitions to a NavState owned by the caller.
type Machine struct {
	state   *model.NavState
	isAdmin bool
}

func New(state *model.NavState, isAdmin bool) *Machine {
	return &Machine{state: state, isAdmin: isAdmin}
}

func (m *Machine) authenticated() bool {
	return m.state.View != "" && m.state.View != model.ViewUnauthenticated
}

// Current reports the visible view. Home with an active prescription is the
// prescription result view.
func (m *Machine) Current() model.View {
	if !m.authenticated() {
		return model.ViewUnauthenticated
	}
	if m.state.View == model.ViewHome && m.state.Prescription != nil {
		return model.ViewPrescriptionResult
	}
	return m.state.View
}

// NavigateTo makes view the only active view and pushes a history
// checkpoint. Re-entering the current view pushes nothing.
func (m *Machine) NavigateTo(view model.View) (model.View, error) {
	if err := m.enter(view); err != nil {
		return m.Current(), err
	}
	if n := len(m.state.History); n == 0 || m.state.History[n-1] != view {
		m.state.History = append(m.state.History, view)
	}
	return m.Current(), nil
}

// Replay enters view without pushing a checkpoint, for forward/back replays
// driven by the platform history.
func (m *Machine) Replay(view model.View) (model.View, error) {
	if err := m.enter(view); err != nil {
		return m.Current(), err
	}
	return m.Current(), nil
}

func (m *Machine) enter(view model.View) error {
	if !m.authenticated() {
		return ErrUnauthenticated
	}
	if !view.Navigable() {
		return ErrInvalidView
	}
	if view == model.ViewAdmin && !m.isAdmin {
		return ErrForbiddenView
	}
	m.state.View = view
	m.state.Prescription = nil
	if view != model.ViewOrder {
		m.state.PrefillMedicine = ""
	}
	return nil
}

// Back pops one checkpoint and clears the active prescription. At the root
// it stays on Home.
func (m *Machine) Back() (model.View, error) {
	if !m.authenticated() {
		return model.ViewUnauthenticated, ErrUnauthenticated
	}
	if n := len(m.state.History); n > 1 {
		m.state.History = m.state.History[:n-1]
		m.state.View = m.state.History[n-2]
	} else {
		m.state.History = []model.View{model.ViewHome}
		m.state.View = model.ViewHome
	}
	m.state.Prescription = nil
	if m.state.View != model.ViewOrder {
		m.state.PrefillMedicine = ""
	}
	return m.Current(), nil
}

// ResetToHome clears every view and the active prescription.
func (m *Machine) ResetToHome() (model.View, error) {
	if !m.authenticated() {
		return model.ViewUnauthenticated, ErrUnauthenticated
	}
	m.state.View = model.ViewHome
	m.state.History = []model.View{model.ViewHome}
	m.state.Prescription = nil
	m.state.PrefillMedicine = ""
	return m.Current(), nil
}

// ShowPrescription resets to Home and makes p the active result.
func (m *Machine) ShowPrescription(p model.Prescription) (model.View, error) {
	if _, err := m.ResetToHome(); err != nil {
		return model.ViewUnauthenticated, err
	}
	m.state.Prescription = &p
	return m.Current(), nil
}

// OrderNow opens the order view with medicine pre-filled.
func (m *Machine) OrderNow(medicine string) (model.View, error) {
	view, err := m.NavigateTo(model.ViewOrder)
	if err != nil {
		return view, err
	}
	m.state.PrefillMedicine = medicine
	return view, nil
}

// Logout returns the machine to the unauthenticated state.
func (m *Machine) Logout() {
	*m.state = Unauthenticated()
}
