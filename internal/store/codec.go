package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Codec maps slots onto prefixed keys and versioned JSON values. Unreadable
// values are logged and replaced by the caller's default, never surfaced.
type Codec struct {
	store  Store
	prefix string
	schema *Schema
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*slotLock
}

// slotLock serializes read-modify-write cycles on one key. It is dropped
// from Codec.locks once no caller holds or waits for it.
type slotLock struct {
	mu   sync.Mutex
	refs int
}

func NewCodec(s Store, prefix string, schema *Schema, logger zerolog.Logger) *Codec {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if schema == nil {
		schema = NewSchema()
	}
	return &Codec{store: s, prefix: prefix, schema: schema, logger: logger, locks: map[string]*slotLock{}}
}

func (c *Codec) Store() Store { return c.store }

func (c *Codec) Prefix() string { return c.prefix }

func (c *Codec) Key(slot Slot) string { return c.prefix + string(slot) }

// SlotOf reverses Key; ok is false for keys outside the prefix.
func (c *Codec) SlotOf(key string) (Slot, bool) {
	if !strings.HasPrefix(key, c.prefix) {
		return "", false
	}
	return Slot(strings.TrimPrefix(key, c.prefix)), true
}

func (c *Codec) lock(slot Slot) func() {
	key := c.Key(slot)

	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &slotLock{}
		c.locks[key] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}
}

// heldLocks reports how many slot locks are currently tracked.
func (c *Codec) heldLocks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.locks)
}

// Load reads slot into a fresh value built by def. Missing or malformed data
// yields def(); only backend failures are returned as errors.
func Load[T any](ctx context.Context, c *Codec, slot Slot, def func() T) (T, error) {
	raw, err := c.store.Get(ctx, c.Key(slot))
	if errors.Is(err, ErrNotFound) {
		return def(), nil
	}
	if err != nil {
		return def(), fmt.Errorf("failed to read %s: %w", slot, err)
	}

	data, _, err := c.schema.Decode(slot.Kind(), raw)
	if err != nil {
		c.logger.Warn().Err(err).Str("slot", string(slot)).Msg("discarding unreadable value")
		return def(), nil
	}

	v := def()
	if string(data) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.Warn().Err(err).Str("slot", string(slot)).Msg("discarding malformed value")
		return def(), nil
	}
	return v, nil
}

// Save writes v to slot at the current schema version.
func Save[T any](ctx context.Context, c *Codec, slot Slot, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", slot, err)
	}
	raw, err := c.schema.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", slot, err)
	}
	if err := c.store.Set(ctx, c.Key(slot), raw); err != nil {
		c.logger.Error().Err(err).Str("slot", string(slot)).Msg("failed to write slot")
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}
	return nil
}

// Update runs a read-modify-write of slot. Writers in this process are
// serialized per slot; across processes the last write wins.
func Update[T any](ctx context.Context, c *Codec, slot Slot, def func() T, fn func(*T) error) (T, error) {
	unlock := c.lock(slot)
	defer unlock()

	v, err := Load(ctx, c, slot, def)
	if err != nil {
		return v, err
	}
	if err := fn(&v); err != nil {
		return v, err
	}
	return v, Save(ctx, c, slot, v)
}

// Remove deletes slot. Removing a missing slot is not an error.
func (c *Codec) Remove(ctx context.Context, slot Slot) error {
	err := c.store.Delete(ctx, c.Key(slot))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete %s: %w", slot, err)
	}
	return nil
}

// Subscribe reports slots changed by other store instances.
func (c *Codec) Subscribe(ctx context.Context, fn func(Slot)) (func(), error) {
	return c.store.Subscribe(ctx, func(ch Change) {
		if slot, ok := c.SlotOf(ch.Key); ok {
			fn(slot)
		}
	})
}

// Upgrade rewrites every slot under the prefix at the current schema
// version and returns how many values were rewritten. Unreadable values
// are reported and left untouched.
func (c *Codec) Upgrade(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, c.prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list keys: %w", err)
	}

	upgraded := 0
	for _, key := range keys {
		slot, _ := c.SlotOf(key)
		unlock := c.lock(slot)
		n, err := c.upgradeOne(ctx, key, slot)
		unlock()
		if err != nil {
			return upgraded, err
		}
		upgraded += n
	}
	return upgraded, nil
}

func (c *Codec) upgradeOne(ctx context.Context, key string, slot Slot) (int, error) {
	raw, err := c.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", key, err)
	}
	data, version, err := c.schema.Decode(slot.Kind(), raw)
	if err != nil {
		c.logger.Warn().Err(err).Str("slot", string(slot)).Msg("skipping unreadable value")
		return 0, nil
	}
	if version == CurrentVersion {
		return 0, nil
	}
	out, err := c.schema.Encode(data)
	if err != nil {
		return 0, err
	}
	if err := c.store.Set(ctx, key, out); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", key, err)
	}
	c.logger.Info().Str("slot", string(slot)).Int("from", version).Int("to", CurrentVersion).Msg("slot upgraded")
	return 1, nil
}
