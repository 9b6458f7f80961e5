package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
)

type item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newCodec(s store.Store, schema *store.Schema) *store.Codec {
	return store.NewCodec(s, "", schema, logger.Nop())
}

func defaultItems() []item { return []item{} }

func TestLoadMissingReturnsDefault(t *testing.T) {
	c := newCodec(memory.New(), nil)
	got, err := store.Load(context.Background(), c, store.SlotOrders, defaultItems)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := newCodec(s, nil)

	require.NoError(t, store.Save(ctx, c, store.SlotOrders, []item{{Name: "a", Count: 1}}))

	raw, err := s.Get(ctx, "mediConsult_orders")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"data":[{"name":"a","count":1}]}`, string(raw))

	got, err := store.Load(ctx, c, store.SlotOrders, defaultItems)
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "a", Count: 1}}, got)
}

func TestLoadMalformedFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := newCodec(s, nil)

	for _, raw := range []string{`not json`, `{"v":1,"data":{"name":1}}`, `{"v":99,"data":[]}`, ``} {
		require.NoError(t, s.Set(ctx, "mediConsult_orders", []byte(raw)))
		got, err := store.Load(ctx, c, store.SlotOrders, defaultItems)
		require.NoError(t, err, raw)
		assert.Empty(t, got, raw)
	}
}

func TestLegacyValueIsMigrated(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	schema := store.NewSchema()
	schema.Register("orders", 0, func(data json.RawMessage) (json.RawMessage, error) {
		var items []item
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		for i := range items {
			if items[i].Count == 0 {
				items[i].Count = 1
			}
		}
		return json.Marshal(items)
	})
	c := newCodec(s, schema)

	require.NoError(t, s.Set(ctx, "mediConsult_orders", []byte(`[{"name":"legacy"}]`)))
	got, err := store.Load(ctx, c, store.SlotOrders, defaultItems)
	require.NoError(t, err)
	assert.Equal(t, []item{{Name: "legacy", Count: 1}}, got)

	n, err := c.Upgrade(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	raw, err := s.Get(ctx, "mediConsult_orders")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1,"data":[{"name":"legacy","count":1}]}`, string(raw))

	n, err = c.Upgrade(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateAppliesFunction(t *testing.T) {
	ctx := context.Background()
	c := newCodec(memory.New(), nil)

	for i := 0; i < 3; i++ {
		_, err := store.Update(ctx, c, store.SlotHistory, defaultItems, func(items *[]item) error {
			*items = append(*items, item{Name: "x", Count: len(*items)})
			return nil
		})
		require.NoError(t, err)
	}
	got, err := store.Load(ctx, c, store.SlotHistory, defaultItems)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, got[2].Count)
}

func TestSubscribeTranslatesKeysToSlots(t *testing.T) {
	ctx := context.Background()
	hub := memory.NewHub()
	a, b := newCodec(hub.Open(), nil), newCodec(hub.Open(), nil)

	var slots []store.Slot
	unsub, err := b.Subscribe(ctx, func(s store.Slot) { slots = append(slots, s) })
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, store.Save(ctx, a, store.SlotSettings, item{Name: "s"}))
	require.NoError(t, a.Remove(ctx, store.ProfileSlot("u1")))
	assert.Equal(t, []store.Slot{store.SlotSettings}, slots)
}

func TestSlotKind(t *testing.T) {
	assert.Equal(t, "profile", store.ProfileSlot("abc_def").Kind())
	assert.Equal(t, "lastCount", store.LastCountSlot("p").Kind())
	assert.Equal(t, "users", store.SlotUsers.Kind())
}
