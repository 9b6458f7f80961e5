package kv

import (
	"context"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type PriceListRepository struct {
	c *store.Codec
}

var _ repository.PriceListRepository = (*PriceListRepository)(nil)

func NewPriceListRepository(c *store.Codec) *PriceListRepository {
	return &PriceListRepository{c: c}
}

func noItems() []model.PriceListItem { return []model.PriceListItem{} }

func (r *PriceListRepository) List(ctx context.Context) ([]model.PriceListItem, error) {
	return store.Load(ctx, r.c, store.SlotPriceList, noItems)
}

func (r *PriceListRepository) Get(ctx context.Context, id string) (*model.PriceListItem, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// Upsert replaces the item with the same id in place, or appends item under
// a fresh id when item.ID is empty.
func (r *PriceListRepository) Upsert(ctx context.Context, item *model.PriceListItem) error {
	_, err := store.Update(ctx, r.c, store.SlotPriceList, noItems, func(items *[]model.PriceListItem) error {
		if item.ID != "" {
			for i := range *items {
				if (*items)[i].ID == item.ID {
					(*items)[i] = *item
					return nil
				}
			}
			return repository.ErrNotFound
		}

		id, err := newID(func(id string) bool {
			for _, it := range *items {
				if it.ID == id {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		item.ID = id
		*items = append(*items, *item)
		return nil
	})
	return err
}

func (r *PriceListRepository) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, r.c, store.SlotPriceList, noItems, func(items *[]model.PriceListItem) error {
		for i, it := range *items {
			if it.ID == id {
				*items = append((*items)[:i], (*items)[i+1:]...)
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return err
}
