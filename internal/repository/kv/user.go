package kv

import (
	"context"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type UserRepository struct {
	c *store.Codec
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(c *store.Codec) *UserRepository {
	return &UserRepository{c: c}
}

func noUsers() []model.User { return []model.User{} }

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return store.Load(ctx, r.c, store.SlotUsers, noUsers)
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*model.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	_, err := store.Update(ctx, r.c, store.SlotUsers, noUsers, func(users *[]model.User) error {
		for _, u := range *users {
			if u.UserID == user.UserID {
				return repository.ErrDuplicate
			}
		}
		*users = append(*users, *user)
		return nil
	})
	return err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	_, err := store.Update(ctx, r.c, store.SlotUsers, noUsers, func(users *[]model.User) error {
		for i := range *users {
			if (*users)[i].UserID == user.UserID {
				(*users)[i] = *user
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return err
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	_, err := store.Update(ctx, r.c, store.SlotUsers, noUsers, func(users *[]model.User) error {
		for i, u := range *users {
			if u.UserID == userID {
				*users = append((*users)[:i], (*users)[i+1:]...)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return err
}

type CredentialRepository struct {
	c *store.Codec
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)

func NewCredentialRepository(c *store.Codec) *CredentialRepository {
	return &CredentialRepository{c: c}
}

// Get falls back to the default admin login when none is stored, or when the
// stored one is incomplete.
func (r *CredentialRepository) Get(ctx context.Context) (model.AdminCredential, error) {
	cred, err := store.Load(ctx, r.c, store.SlotAdminCreds, model.DefaultAdminCredential)
	if err != nil {
		return cred, err
	}
	if cred.UserID == "" || cred.Password == "" {
		return model.DefaultAdminCredential(), nil
	}
	return cred, nil
}

func (r *CredentialRepository) Save(ctx context.Context, cred model.AdminCredential) error {
	return store.Save(ctx, r.c, store.SlotAdminCreds, cred)
}
