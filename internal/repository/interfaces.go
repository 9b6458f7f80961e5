package repository

import (
	"context"
	"errors"

	"github.com/jwalitptl/mediconsult-api/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// All repository interfaces in one file
type (
	// UserRepository handles registered patient accounts
	UserRepository interface {
		List(ctx context.Context) ([]model.User, error)
		Get(ctx context.Context, userID string) (*model.User, error)
		Create(ctx context.Context, user *model.User) error
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, userID string) error
	}

	// CredentialRepository holds the single admin login
	CredentialRepository interface {
		Get(ctx context.Context) (model.AdminCredential, error)
		Save(ctx context.Context, cred model.AdminCredential) error
	}

	ProfileRepository interface {
		Get(ctx context.Context, userID string) (*model.PatientProfile, error)
		Save(ctx context.Context, profile *model.PatientProfile) error
		Delete(ctx context.Context, userID string) error
	}

	OrderRepository interface {
		List(ctx context.Context) ([]model.MedicineOrder, error)
		Get(ctx context.Context, id string) (*model.MedicineOrder, error)
		Create(ctx context.Context, order *model.MedicineOrder) error
		Update(ctx context.Context, id string, fn func(*model.MedicineOrder) error) (*model.MedicineOrder, error)
	}

	PriceListRepository interface {
		List(ctx context.Context) ([]model.PriceListItem, error)
		Get(ctx context.Context, id string) (*model.PriceListItem, error)
		Upsert(ctx context.Context, item *model.PriceListItem) error
		Delete(ctx context.Context, id string) error
	}

	// HistoryRepository keeps the store-wide prescription history
	HistoryRepository interface {
		List(ctx context.Context) ([]model.PrescriptionEntry, error)
		Get(ctx context.Context, id string) (*model.PrescriptionEntry, error)
		Append(ctx context.Context, entry *model.PrescriptionEntry, limit int) error
		Delete(ctx context.Context, id string) error
	}

	SettingsRepository interface {
		Get(ctx context.Context) (model.AppSettings, error)
		Update(ctx context.Context, fn func(*model.AppSettings) error) (model.AppSettings, error)
	}

	SessionRepository interface {
		Get(ctx context.Context, id string) (*model.Session, error)
		Create(ctx context.Context, session *model.Session) error
		Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error)
		Delete(ctx context.Context, id string) error
		// DeleteExpired drops sessions that expired before now and reports
		// how many were removed.
		DeleteExpired(ctx context.Context, now int64) (int, error)
	}

	// SeenRepository records how many order messages a patient has seen
	SeenRepository interface {
		Get(ctx context.Context, patientID string) (int, error)
		Set(ctx context.Context, patientID string, count int) error
	}
)
