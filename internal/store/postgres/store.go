// Package postgres keeps entities in a single JSONB key-value table and
// announces changes with LISTEN/NOTIFY.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/mediconsult-api/internal/store"
)

const DefaultChannel = "mediconsult_changes"

type Store struct {
	db      *sqlx.DB
	dsn     string
	channel string
	origin  string
	logger  zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps db. dsn is used to open the dedicated LISTEN connection.
func New(db *sqlx.DB, dsn, channel string, logger zerolog.Logger) *Store {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Store{db: db, dsn: dsn, channel: channel, origin: uuid.NewString(), logger: logger}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	s.notify(ctx, store.Change{Key: key, Origin: s.origin})
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	s.notify(ctx, store.Change{Key: key, Origin: s.origin, Delete: true})
	return nil
}

func (s *Store) notify(ctx context.Context, ch store.Change) {
	payload, err := json.Marshal(ch)
	if err != nil {
		return
	}
	if _, err := s.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, s.channel, string(payload)); err != nil {
		s.logger.Warn().Err(err).Str("key", ch.Key).Msg("failed to notify change")
	}
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT key FROM kv_store WHERE key LIKE $1 ORDER BY key`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (s *Store) Subscribe(ctx context.Context, fn func(store.Change)) (func(), error) {
	listener := pq.NewListener(s.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			s.logger.Warn().Err(err).Int("event", int(ev)).Msg("change listener event")
		}
	})
	if err := listener.Listen(s.channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", s.channel, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-subCtx.Done():
				return
			case n := <-listener.Notify:
				// nil after a reconnect
				if n == nil {
					continue
				}
				var ch store.Change
				if err := json.Unmarshal([]byte(n.Extra), &ch); err != nil {
					s.logger.Warn().Err(err).Msg("ignoring malformed change notification")
					continue
				}
				if ch.Origin != s.origin {
					fn(ch)
				}
			case <-time.After(90 * time.Second):
				go listener.Ping()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
			listener.Close()
		})
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
