package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/internal/intake"
	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/navigation"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/pkg/auth"
	"github.com/jwalitptl/mediconsult-api/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateID        = errors.New("user id is already taken")
	ErrMissingFields      = errors.New("all fields are required")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

const adminName = "Admin"

type Service struct {
	users    repository.UserRepository
	creds    repository.CredentialRepository
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
}

func NewService(users repository.UserRepository, creds repository.CredentialRepository,
	profiles repository.ProfileRepository, sessions repository.SessionRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		users:    users,
		creds:    creds,
		profiles: profiles,
		sessions: sessions,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
	}
}

// Register adds a patient account. The id must be unused by patients and by
// the admin login.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error) {
	name := strings.TrimSpace(req.Name)
	userID := strings.TrimSpace(req.UserID)
	if name == "" || userID == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	admin, err := s.creds.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin credentials: %w", err)
	}
	if userID == admin.UserID {
		return nil, ErrDuplicateID
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{Name: name, UserID: userID, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// LoginUser signs a patient in and creates their profile on first login.
func (s *Service) LoginUser(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.Get(ctx, strings.TrimSpace(req.UserID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	rehash, ok := s.checkPassword(user.Password, req.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if rehash != "" {
		user.Password = rehash
		if err := s.users.Update(ctx, user); err != nil {
			log.Warn().Err(err).Str("user_id", user.UserID).Msg("failed to upgrade stored password")
		}
	}

	profile, err := s.ensureProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	draft := intake.NewDraft(*profile)
	resp, err := s.openSession(ctx, user.Summary(), navigation.Start(false), draft)
	if err != nil {
		return nil, err
	}
	resp.Profile = profile
	return resp, nil
}

// LoginAdmin signs the administrator in against the stored admin login.
func (s *Service) LoginAdmin(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	cred, err := s.creds.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin credentials: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.UserID)), []byte(cred.UserID)) != 1 {
		return nil, ErrInvalidCredentials
	}
	rehash, ok := s.checkPassword(cred.Password, req.Password)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if rehash != "" {
		cred.Password = rehash
		if err := s.creds.Save(ctx, cred); err != nil {
			log.Warn().Err(err).Msg("failed to upgrade stored admin password")
		}
	}

	user := model.UserSummary{Name: adminName, UserID: cred.UserID, IsAdmin: true}
	return s.openSession(ctx, user, navigation.Start(true), model.IntakeDraft{})
}

// checkPassword compares password with stored, which is a bcrypt digest or
// legacy clear text. A non-empty rehash asks the caller to store the digest.
func (s *Service) checkPassword(stored, password string) (rehash string, ok bool) {
	if security.IsHash(stored) {
		return "", s.hasher.Compare(stored, password) == nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		return "", false
	}
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return "", true
	}
	return hashed, true
}

func (s *Service) ensureProfile(ctx context.Context, user *model.User) (*model.PatientProfile, error) {
	profile, err := s.profiles.Get(ctx, user.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	created := model.NewProfile(user.UserID, user.Name)
	if err := s.profiles.Save(ctx, &created); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &created, nil
}

func (s *Service) openSession(ctx context.Context, user model.UserSummary, nav model.NavState, draft model.IntakeDraft) (*model.LoginResponse, error) {
	sid := uuid.New().String()
	token, expiresAt, err := s.jwtSvc.GenerateToken(model.TokenClaims{
		SessionID: sid,
		UserID:    user.UserID,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &model.Session{
		ID:        sid,
		UserID:    user.UserID,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		CreatedAt: model.NowMillis(),
		ExpiresAt: expiresAt.UnixMilli(),
		Nav:       nav,
		Intake:    draft,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info().Str("user_id", user.UserID).Bool("admin", user.IsAdmin).Msg("session opened")
	return &model.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != claims.UserID || session.IsAdmin != claims.IsAdmin {
		return nil, ErrSessionNotFound
	}
	if time.Now().UnixMilli() > session.ExpiresAt {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Logout drops the session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ChangeAdminCredentials replaces the admin login. The new id may not
// collide with a patient id.
func (s *Service) ChangeAdminCredentials(ctx context.Context, req *model.UpdateCredentialsRequest) error {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || req.Password == "" {
		return ErrMissingFields
	}
	if _, err := s.users.Get(ctx, userID); err == nil {
		return ErrDuplicateID
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check user id: %w", err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.creds.Save(ctx, model.AdminCredential{UserID: userID, Password: hashed}); err != nil {
		return fmt.Errorf("failed to save admin credentials: %w", err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]model.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// DeleteUser removes a patient account and its profile.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to delete profile")
	}
	return nil
}
