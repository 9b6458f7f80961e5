package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	pkgauth "github.com/jwalitptl/mediconsult-api/pkg/auth"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
	"github.com/jwalitptl/mediconsult-api/pkg/security"
)

func setup(t *testing.T) (*Service, *kv.Repositories) {
	t.Helper()
	repos := kv.New(store.NewCodec(memory.New(), store.DefaultPrefix, kv.Schema(), logger.Nop()))
	jwtSvc, err := pkgauth.NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)
	svc := NewService(repos.Users, repos.Credentials, repos.Profiles, repos.Sessions, jwtSvc, security.NewBcryptHasher(4))
	return svc, repos
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	user, err := svc.Register(ctx, &model.RegisterRequest{Name: "Rahim", UserID: "01711", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Rahim", user.Name)

	stored, err := repos.Users.Get(ctx, "01711")
	require.NoError(t, err)
	assert.True(t, security.IsHash(stored.Password))

	resp, err := svc.LoginUser(ctx, &model.LoginRequest{UserID: "01711", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Rahim", resp.User.Name)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, model.NewProfile("01711", "Rahim"), *resp.Profile)

	session, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.ViewHome, session.Nav.View)
	assert.Equal(t, model.StepVitals, session.Intake.Step)
	assert.Equal(t, "Rahim", session.Intake.Profile.Name)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)

	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", UserID: "u1", Password: "x"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantErr error
	}{
		{"existing user", model.RegisterRequest{Name: "B", UserID: "u1", Password: "y"}, ErrDuplicateID},
		{"admin id", model.RegisterRequest{Name: "B", UserID: model.DefaultAdminID, Password: "y"}, ErrDuplicateID},
		{"missing name", model.RegisterRequest{Name: " ", UserID: "u2", Password: "y"}, ErrMissingFields},
		{"missing password", model.RegisterRequest{Name: "B", UserID: "u2"}, ErrMissingFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			users, err := repos.Users.List(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestLoginUserInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", UserID: "u1", Password: "x"})
	require.NoError(t, err)

	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "u1", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "nobody", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLegacyPlaintextPasswordIsUpgraded(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)
	require.NoError(t, repos.Users.Create(ctx, &model.User{Name: "Old", UserID: "legacy", Password: "1234"}))

	_, err := svc.LoginUser(ctx, &model.LoginRequest{UserID: "legacy", Password: "1234"})
	require.NoError(t, err)

	stored, err := repos.Users.Get(ctx, "legacy")
	require.NoError(t, err)
	assert.True(t, security.IsHash(stored.Password))

	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "legacy", Password: "1234"})
	assert.NoError(t, err)
}

func TestLoginKeepsExistingProfile(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)
	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", UserID: "u1", Password: "x"})
	require.NoError(t, err)
	require.NoError(t, repos.Profiles.Save(ctx, &model.PatientProfile{ID: "u1", Name: "A", Age: "40"}))

	resp, err := svc.LoginUser(ctx, &model.LoginRequest{UserID: "u1", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "40", resp.Profile.Age)
}

func TestAdminLoginAndCredentialChange(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	resp, err := svc.LoginAdmin(ctx, &model.LoginRequest{UserID: "1", Password: "1"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
	assert.Equal(t, "Admin", resp.User.Name)
	assert.Nil(t, resp.Profile)

	session, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.ViewAdmin, session.Nav.View)

	_, err = svc.Register(ctx, &model.RegisterRequest{Name: "P", UserID: "u1", Password: "x"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ChangeAdminCredentials(ctx, &model.UpdateCredentialsRequest{UserID: "u1", Password: "p"}), ErrDuplicateID)
	assert.ErrorIs(t, svc.ChangeAdminCredentials(ctx, &model.UpdateCredentialsRequest{UserID: "boss", Password: ""}), ErrMissingFields)
	require.NoError(t, svc.ChangeAdminCredentials(ctx, &model.UpdateCredentialsRequest{UserID: "boss", Password: "s3cret"}))

	_, err = svc.LoginAdmin(ctx, &model.LoginRequest{UserID: "1", Password: "1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.LoginAdmin(ctx, &model.LoginRequest{UserID: "boss", Password: "s3cret"})
	assert.NoError(t, err)

	_, err = svc.Register(ctx, &model.RegisterRequest{Name: "X", UserID: "boss", Password: "x"})
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = svc.Register(ctx, &model.RegisterRequest{Name: "X", UserID: "1", Password: "x"})
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", UserID: "u1", Password: "x"})
	require.NoError(t, err)
	resp, err := svc.LoginUser(ctx, &model.LoginRequest{UserID: "u1", Password: "x"})
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, session.ID))
	require.NoError(t, svc.Logout(ctx, session.ID))

	_, err = svc.Authenticate(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t)
	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "A", UserID: "u1", Password: "x"})
	require.NoError(t, err)
	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "u1", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, "u1"))
	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	_, err = repos.Profiles.Get(ctx, "u1")
	assert.Error(t, err)
}

func TestLongPasswords(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	long := strings.Repeat("a", 80)

	_, err := svc.Register(ctx, &model.RegisterRequest{Name: "Rahim", UserID: "rahim", Password: long})
	require.NoError(t, err)
	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "rahim", Password: long})
	assert.NoError(t, err)
	_, err = svc.LoginUser(ctx, &model.LoginRequest{UserID: "rahim", Password: strings.Repeat("a", 72)})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangeAdminCredentials(ctx, &model.UpdateCredentialsRequest{UserID: "boss", Password: long}))
	_, err = svc.LoginAdmin(ctx, &model.LoginRequest{UserID: "boss", Password: long})
	assert.NoError(t, err)
}
