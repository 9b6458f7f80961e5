// Package redis stores entities as Redis strings and fans changes out over
// Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/pkg/messaging"
	broker "github.com/jwalitptl/mediconsult-api/pkg/messaging/redis"
)

const DefaultChannel = "mediconsult:changes"

type Store struct {
	client  *redis.Client
	broker  messaging.Broker
	channel string
	origin  string
	logger  zerolog.Logger
}

var _ store.Store = (*Store)(nil)

func New(client *redis.Client, channel string, logger zerolog.Logger) *Store {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Store{
		client:  client,
		broker:  broker.NewRedisBroker(client, logger),
		channel: channel,
		origin:  uuid.NewString(),
		logger:  logger,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	s.notify(ctx, store.Change{Key: key, Origin: s.origin})
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	s.notify(ctx, store.Change{Key: key, Origin: s.origin, Delete: true})
	return nil
}

// notify is best effort: the value is already written.
func (s *Store) notify(ctx context.Context, ch store.Change) {
	if err := s.broker.Publish(ctx, s.channel, ch); err != nil {
		s.logger.Warn().Err(err).Str("key", ch.Key).Msg("failed to publish change")
	}
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}
	return keys, nil
}

func (s *Store) Subscribe(ctx context.Context, fn func(store.Change)) (func(), error) {
	subCtx, cancel := context.WithCancel(ctx)
	msgs, err := s.broker.Subscribe(subCtx, s.channel)
	if err != nil {
		cancel()
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range msgs {
			var ch store.Change
			if err := json.Unmarshal(msg, &ch); err != nil {
				s.logger.Warn().Err(err).Msg("ignoring malformed change message")
				continue
			}
			if ch.Origin == s.origin {
				continue
			}
			fn(ch)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if err := s.broker.Close(); err != nil {
		return err
	}
	return s.client.Close()
}
