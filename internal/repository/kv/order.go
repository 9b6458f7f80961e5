package kv

import (
	"context"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

type OrderRepository struct {
	c *store.Codec
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(c *store.Codec) *OrderRepository {
	return &OrderRepository{c: c}
}

func noOrders() []model.MedicineOrder { return []model.MedicineOrder{} }

func (r *OrderRepository) List(ctx context.Context) ([]model.MedicineOrder, error) {
	return store.Load(ctx, r.c, store.SlotOrders, noOrders)
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*model.MedicineOrder, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

// Create assigns an id unused by any stored order and appends the order.
func (r *OrderRepository) Create(ctx context.Context, order *model.MedicineOrder) error {
	_, err := store.Update(ctx, r.c, store.SlotOrders, noOrders, func(orders *[]model.MedicineOrder) error {
		id, err := newID(func(id string) bool {
			for _, o := range *orders {
				if o.ID == id {
					return true
				}
			}
			return false
		})
		if err != nil {
			return err
		}
		order.ID = id
		*orders = append(*orders, *order)
		return nil
	})
	return err
}

func (r *OrderRepository) Update(ctx context.Context, id string, fn func(*model.MedicineOrder) error) (*model.MedicineOrder, error) {
	var updated model.MedicineOrder
	_, err := store.Update(ctx, r.c, store.SlotOrders, noOrders, func(orders *[]model.MedicineOrder) error {
		for i := range *orders {
			if (*orders)[i].ID == id {
				if err := fn(&(*orders)[i]); err != nil {
					return err
				}
				updated = (*orders)[i]
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
