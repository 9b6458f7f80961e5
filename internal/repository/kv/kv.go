// Package kv implements the repositories on top of the persisted entity
// store. Each collection lives in one slot, as the browser client kept it.
package kv

import (
	"context"
	"encoding/json"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/pkg/shortid"
)

// Schema returns the migrations for every slot kind.
func Schema() *store.Schema {
	s := store.NewSchema()
	s.Register(string(store.SlotPriceList), 0, migratePriceListV0)
	s.Register(string(store.SlotOrders), 0, migrateOrdersV0)
	return s
}

// Version 0 price items could omit category and unit.
func migratePriceListV0(data json.RawMessage) (json.RawMessage, error) {
	var items []model.PriceListItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Category == "" {
			items[i].Category = model.DefaultPriceCategory
		}
		if items[i].Unit == "" {
			items[i].Unit = model.DefaultPriceUnit
		}
	}
	return json.Marshal(items)
}

// Version 0 orders could carry a null message list or no status.
func migrateOrdersV0(data json.RawMessage) (json.RawMessage, error) {
	var orders []model.MedicineOrder
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Messages == nil {
			orders[i].Messages = []model.OrderMessage{}
		}
		if !orders[i].Status.Valid() {
			orders[i].Status = model.OrderStatusPending
		}
	}
	return json.Marshal(orders)
}

// Repositories bundles every repository over one codec.
type Repositories struct {
	Users       *UserRepository
	Credentials *CredentialRepository
	Profiles    *ProfileRepository
	Orders      *OrderRepository
	PriceList   *PriceListRepository
	History     *HistoryRepository
	Settings    *SettingsRepository
	Sessions    *SessionRepository
	Seen        *SeenRepository
}

func New(c *store.Codec) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(c),
		Credentials: NewCredentialRepository(c),
		Profiles:    NewProfileRepository(c),
		Orders:      NewOrderRepository(c),
		PriceList:   NewPriceListRepository(c),
		History:     NewHistoryRepository(c),
		Settings:    NewSettingsRepository(c),
		Sessions:    NewSessionRepository(c),
		Seen:        NewSeenRepository(c),
	}
}

// Watch keeps the caching repositories consistent with writes made by other
// instances until the returned function is called.
func (r *Repositories) Watch(ctx context.Context) (func(), error) {
	return r.Settings.Watch(ctx)
}

func newID(taken func(string) bool) (string, error) {
	return shortid.Unique(taken)
}
