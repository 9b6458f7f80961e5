// Package memory is an in-process store backend built on go-cache.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/mediconsult-api/internal/store"
)

// Hub is the shared state behind one or more Store instances. Instances
// opened from the same hub see each other's data and changes, like browser
// tabs sharing one origin.
type Hub struct {
	cache *cache.Cache

	mu     sync.RWMutex
	nextID int
	subs   map[int]subscriber
}

type subscriber struct {
	origin string
	fn     func(store.Change)
}

func NewHub() *Hub {
	return &Hub{
		cache: cache.New(cache.NoExpiration, 0),
		subs:  make(map[int]subscriber),
	}
}

// Open returns a new instance attached to the hub.
func (h *Hub) Open() *Store {
	return &Store{hub: h, origin: uuid.NewString()}
}

// New returns a single instance on a private hub.
func New() *Store {
	return NewHub().Open()
}

type Store struct {
	hub    *Hub
	origin string
}

var _ store.Store = (*Store)(nil)

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.hub.cache.Get(key)
	if !ok {
		return nil, store.ErrNotFound
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	b := make([]byte, len(value))
	copy(b, value)
	s.hub.cache.Set(key, b, cache.NoExpiration)
	s.hub.publish(store.Change{Key: key, Origin: s.origin})
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	if _, ok := s.hub.cache.Get(key); !ok {
		return store.ErrNotFound
	}
	s.hub.cache.Delete(key)
	s.hub.publish(store.Change{Key: key, Origin: s.origin, Delete: true})
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for k := range s.hub.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Subscribe(_ context.Context, fn func(store.Change)) (func(), error) {
	h := s.hub
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{origin: s.origin, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// publish delivers synchronously, outside the lock, to every subscriber of
// another instance.
func (h *Hub) publish(ch store.Change) {
	h.mu.RLock()
	targets := make([]func(store.Change), 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.origin != ch.Origin {
			targets = append(targets, sub.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		fn(ch)
	}
}
