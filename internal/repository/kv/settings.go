package kv

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/store"
)

const (
	settingsCacheKey = "settings"
	settingsTTL      = 5 * time.Minute
)

// SettingsRepository reads through a cache. Writes made here refresh it;
// writes made by other instances evict it once Watch is running.
type SettingsRepository struct {
	c     *store.Codec
	cache *cache.Cache
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(c *store.Codec) *SettingsRepository {
	return &SettingsRepository{
		c:     c,
		cache: cache.New(settingsTTL, 10*time.Minute),
	}
}

func (r *SettingsRepository) Get(ctx context.Context) (model.AppSettings, error) {
	if v, ok := r.cache.Get(settingsCacheKey); ok {
		return clone(v.(model.AppSettings)), nil
	}
	s, err := store.Load(ctx, r.c, store.SlotSettings, model.DefaultSettings)
	if err != nil {
		return s, err
	}
	r.cache.Set(settingsCacheKey, clone(s), cache.DefaultExpiration)
	return s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, fn func(*model.AppSettings) error) (model.AppSettings, error) {
	s, err := store.Update(ctx, r.c, store.SlotSettings, model.DefaultSettings, fn)
	if err != nil {
		r.cache.Delete(settingsCacheKey)
		return s, err
	}
	r.cache.Set(settingsCacheKey, clone(s), cache.DefaultExpiration)
	return s, nil
}

// Watch evicts the cache whenever another instance writes the settings.
func (r *SettingsRepository) Watch(ctx context.Context) (func(), error) {
	return r.c.Subscribe(ctx, func(slot store.Slot) {
		if slot == store.SlotSettings {
			r.cache.Delete(settingsCacheKey)
		}
	})
}

// clone copies the slices so callers cannot mutate the cached value.
func clone(s model.AppSettings) model.AppSettings {
	s.Symptoms = append([]string{}, s.Symptoms...)
	s.MedicalHistories = append([]string{}, s.MedicalHistories...)
	s.AvailableTests = append([]string{}, s.AvailableTests...)
	return s
}
