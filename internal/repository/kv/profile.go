package kv

import (
	"context"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type ProfileRepository struct {
	c *store.Codec
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(c *store.Codec) *ProfileRepository {
	return &ProfileRepository{c: c}
}

func noProfile() *model.PatientProfile { return nil }

func (r *ProfileRepository) Get(ctx context.Context, userID string) (*model.PatientProfile, error) {
	p, err := store.Load(ctx, r.c, store.ProfileSlot(userID), noProfile)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, profile *model.PatientProfile) error {
	return store.Save(ctx, r.c, store.ProfileSlot(profile.ID), profile)
}

func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	return r.c.Remove(ctx, store.ProfileSlot(userID))
}
