package kv

import (
	"context"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type HistoryRepository struct {
	c *store.Codec
}

var _ repository.HistoryRepository = (*HistoryRepository)(nil)

func NewHistoryRepository(c *store.Codec) *HistoryRepository {
	return &HistoryRepository{c: c}
}

func noEntries() []model.PrescriptionEntry { return []model.PrescriptionEntry{} }

func (r *HistoryRepository) List(ctx context.Context) ([]model.PrescriptionEntry, error) {
	return store.Load(ctx, r.c, store.SlotHistory, noEntries)
}

func (r *HistoryRepository) Get(ctx context.Context, id string) (*model.PrescriptionEntry, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// Append adds entry under a fresh id and keeps only the newest limit
// entries across all patients.
func (r *HistoryRepository) Append(ctx context.Context, entry *model.PrescriptionEntry, limit int) error {
	_, err := store.Update(ctx, r.c, store.SlotHistory, noEntries, func(entries *[]model.PrescriptionEntry) error {
		id, err := newID(func(id string) bool {
			for _, e := range *entries {
				if e.ID == id {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		entry.ID = id
		*entries = append(*entries, *entry)
		if limit > 0 && len(*entries) > limit {
			*entries = append([]model.PrescriptionEntry(nil), (*entries)[len(*entries)-limit:]...)
		}
		return nil
	})
	return err
}

func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, r.c, store.SlotHistory, noEntries, func(entries *[]model.PrescriptionEntry) error {
		for i, e := range *entries {
			if e.ID == id {
				*entries = append((*entries)[:i], (*entries)[i+1:]...)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return err
}
