package model

import "strings"

const (
	DefaultGender     = "Male"
	DefaultBloodGroup = "Unknown"
)

// PatientProfile holds the demographic data of a patient. ID equals the
// owning user's id.
type PatientProfile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Age              string `json:"age"`
	Gender           string `json:"gender"`
	BloodGroup       string `json:"bloodGroup"`
	Address          string `json:"address"`
	Mobile           string `json:"mobile"`
	ProfilePic       string `json:"profilePic,omitempty"`
	PreviousDiseases string `json:"previousDiseases"`
}

// NewProfile builds the profile synthesized on a patient's first login.
func NewProfile(userID, name string) PatientProfile {
	return PatientProfile{
		ID:         userID,
		Name:       name,
		Gender:     DefaultGender,
		BloodGroup: DefaultBloodGroup,
	}
}

// Complete reports whether name and age are filled in, which the intake
// wizard requires before leaving the first step or submitting.
func (p PatientProfile) Complete() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Age) != ""
}

// UpdateProfileRequest replaces the editable profile fields
type UpdateProfileRequest struct {
	Name             string `json:"name"`
	Age              string `json:"age"`
	Gender           string `json:"gender"`
	BloodGroup       string `json:"bloodGroup"`
	Address          string `json:"address"`
	Mobile           string `json:"mobile"`
	ProfilePic       string `json:"profilePic"`
	PreviousDiseases string `json:"previousDiseases"`
}

// Apply copies the request onto p, keeping the id.
func (r UpdateProfileRequest) Apply(p PatientProfile) PatientProfile {
	p.Name = r.Name
	p.Age = r.Age
	p.Gender = r.Gender
	p.BloodGroup = r.BloodGroup
	p.Address = r.Address
	p.Mobile = r.Mobile
	p.ProfilePic = r.ProfilePic
	p.PreviousDiseases = r.PreviousDiseases
	return p
}
