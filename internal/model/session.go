package model

// View is a screen of the patient application
type View string

const (
	ViewUnauthenticated    View = "unauthenticated"
	ViewHome               View = "home"
	ViewAdmin              View = "admin"
	ViewProfile            View = "profile"
	ViewSearch             View = "search"
	ViewOrder              View = "order"
	ViewPriceList          View = "price-list"
	ViewHistory            View = "history"
	ViewPrescriptionResult View = "prescription-result"
)

// Navigable reports whether v may be the target of an explicit navigation.
// The result view is only reachable by showing a prescription.
func (v View) Navigable() bool {
	switch v {
	case ViewHome, ViewAdmin, ViewProfile, ViewSearch, ViewOrder, ViewPriceList, ViewHistory:
		return true
	}
	return false
}

// NavState is the persisted state of the navigation machine
type NavState struct {
	View            View          `json:"view"`
	History         []View        `json:"history"`
	Prescription    *Prescription `json:"prescription,omitempty"`
	PrefillMedicine string        `json:"prefillMedicine,omitempty"`
}

// IntakeStep is a page of the intake wizard
type IntakeStep int

const (
	StepVitals           IntakeStep = 1
	StepSymptomsHistory  IntakeStep = 2
	StepTestsMedications IntakeStep = 3
)

// IntakeDraft is the persisted state of the intake wizard
type IntakeDraft struct {
	Step    IntakeStep     `json:"step"`
	Profile PatientProfile `json:"profile"`
	Case    MedicalCase    `json:"case"`
}

// Session is the server-side state of one logged-in client
type Session struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	IsAdmin   bool        `json:"isAdmin"`
	CreatedAt int64       `json:"createdAt"`
	ExpiresAt int64       `json:"expiresAt"`
	Nav       NavState    `json:"nav"`
	Intake    IntakeDraft `json:"intake"`
}

// SessionView is the session state returned to clients
type SessionView struct {
	User        UserSummary `json:"user"`
	View        View        `json:"view"`
	NavState    NavState    `json:"nav"`
	UnreadCount int         `json:"unreadCount"`
}

// NavigateRequest names the target view
type NavigateRequest struct {
	View View `json:"view" binding:"required"`
}
