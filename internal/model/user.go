package model

// User is a registered account. Password holds a bcrypt digest once written by
// this service; records imported from older clients may still hold clear text.
type User struct {
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

// UserSummary is the outward view of a User.
type UserSummary struct {
	Name    string `json:"name"`
	UserID  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
}

func (u User) Summary() UserSummary {
	return UserSummary{Name: u.Name, UserID: u.UserID, IsAdmin: u.IsAdmin}
}

// AdminCredential is the single administrator login.
type AdminCredential struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

const (
	DefaultAdminID       = "1"
	DefaultAdminPassword = "1"
)

func DefaultAdminCredential() AdminCredential {
	return AdminCredential{UserID: DefaultAdminID, Password: DefaultAdminPassword}
}

// RegisterRequest represents patient registration parameters
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is shared by the patient and the admin login
type LoginRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateCredentialsRequest replaces the admin login
type UpdateCredentialsRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}
