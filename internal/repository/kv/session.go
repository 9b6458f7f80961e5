package kv

import (
	"context"
	"fmt"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type SessionRepository struct {
	c *store.Codec
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(c *store.Codec) *SessionRepository {
	return &SessionRepository{c: c}
}

func noSession() *model.Session { return nil }

func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	s, err := store.Load(ctx, r.c, store.SessionSlot(id), noSession)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	return store.Save(ctx, r.c, store.SessionSlot(session.ID), session)
}

func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error) {
	s, err := store.Update(ctx, r.c, store.SessionSlot(id), noSession, func(s **model.Session) error {
		if *s == nil {
			return repository.ErrNotFound
		}
		return fn(*s)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.c.Remove(ctx, store.SessionSlot(id))
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now int64) (int, error) {
	prefix := r.c.Key(store.SessionSlot(""))
	keys, err := r.c.Store().Keys(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	removed := 0
	for _, key := range keys {
		slot, ok := r.c.SlotOf(key)
		if !ok {
			continue
		}
		s, err := store.Load(ctx, r.c, slot, noSession)
		if err != nil {
			return removed, err
		}
		if s != nil && s.ExpiresAt >= now {
			continue
		}
		if err := r.c.Remove(ctx, slot); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

type SeenRepository struct {
	c *store.Codec
}

var _ repository.SeenRepository = (*SeenRepository)(nil)

func NewSeenRepository(c *store.Codec) *SeenRepository {
	return &SeenRepository{c: c}
}

func zero() int { return 0 }

func (r *SeenRepository) Get(ctx context.Context, patientID string) (int, error) {
	return store.Load(ctx, r.c, store.LastCountSlot(patientID), zero)
}

func (r *SeenRepository) Set(ctx context.Context, patientID string, count int) error {
	return store.Save(ctx, r.c, store.LastCountSlot(patientID), count)
}
