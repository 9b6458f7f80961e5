package medicine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/generation"
)

func TestSearchCachesByNormalizedQuery(t *testing.T) {
	gen := generation.NewStatic()
	svc := NewService(gen)

	res, err := svc.Search(context.Background(), " Napa ")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol", res.GenericName)

	_, err = svc.Search(context.Background(), "napa")
	require.NoError(t, err)
	assert.Equal(t, 1, gen.Calls())
}

func TestSearchErrors(t *testing.T) {
	gen := generation.NewStatic()
	gen.Err = errors.New("quota exceeded")
	svc := NewService(gen)

	_, err := svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = svc.Search(context.Background(), "ace")
	assert.ErrorIs(t, err, generation.ErrRemoteGeneration)
	_, err = svc.Search(context.Background(), "ace")
	assert.ErrorIs(t, err, generation.ErrRemoteGeneration)
	assert.Equal(t, 2, gen.Calls())
}
