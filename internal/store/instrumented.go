package store

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
)

type instrumented struct {
	Store
	m *metrics.Metrics
}

// Instrument records operation counts and latency for s.
func Instrument(s Store, m *metrics.Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{Store: s, m: m}
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	status := metrics.Status(err)
	if errors.Is(err, ErrNotFound) {
		status = "miss"
	}
	i.m.StoreOperations.WithLabelValues(op, status).Inc()
	i.m.StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (i *instrumented) Get(ctx context.Context, key string) (v []byte, err error) {
	defer func(start time.Time) { i.observe("get", start, err) }(time.Now())
	return i.Store.Get(ctx, key)
}

func (i *instrumented) Set(ctx context.Context, key string, value []byte) (err error) {
	defer func(start time.Time) { i.observe("set", start, err) }(time.Now())
	return i.Store.Set(ctx, key, value)
}

func (i *instrumented) Delete(ctx context.Context, key string) (err error) {
	defer func(start time.Time) { i.observe("delete", start, err) }(time.Now())
	return i.Store.Delete(ctx, key)
}

func (i *instrumented) Subscribe(ctx context.Context, fn func(Change)) (func(), error) {
	return i.Store.Subscribe(ctx, func(ch Change) {
		kind := "set"
		if ch.Delete {
			kind = "delete"
		}
		i.m.StoreChanges.WithLabelValues(kind).Inc()
		fn(ch)
	})
}
