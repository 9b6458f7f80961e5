package model

// TokenClaims carries the identity encoded in a session token
type TokenClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"sub"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"admin"`
}

// LoginResponse is returned by both login endpoints
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expiresAt"`
	User      UserSummary     `json:"user"`
	Profile   *PatientProfile `json:"profile,omitempty"`
}
