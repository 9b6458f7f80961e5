package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
)

func TestSessionCleanup(t *testing.T) {
	ctx := context.Background()
	codec := store.NewCodec(memory.New(), store.DefaultPrefix, kv.Schema(), logger.Nop())
	repos := kv.New(codec)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Sessions.Create(ctx, &model.Session{ID: "old", UserID: "rahim", ExpiresAt: now.Add(-time.Minute).UnixMilli()}))
	require.NoError(t, repos.Sessions.Create(ctx, &model.Session{ID: "live", UserID: "karim", ExpiresAt: now.Add(time.Hour).UnixMilli()}))
	require.NoError(t, repos.Profiles.Save(ctx, &model.PatientProfile{ID: "rahim", Name: "Rahim"}))

	w := NewSessionCleanupWorker(repos.Sessions, time.Hour)
	w.now = func() time.Time { return now }

	removed, err := w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = repos.Sessions.Get(ctx, "old")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Sessions.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = repos.Profiles.Get(ctx, "rahim")
	assert.NoError(t, err)

	removed, err = w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
