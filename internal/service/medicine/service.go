package medicine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/mediconsult-api/internal/generation"
	"github.com/jwalitptl/mediconsult-api/internal/model"
)

var ErrEmptyQuery = errors.New("search query must not be blank")

const (
	resultTTL     = 30 * time.Minute
	cleanupPeriod = time.Hour
)

type Service struct {
	generator generation.Generator
	results   *cache.Cache
}

func NewService(generator generation.Generator) *Service {
	return &Service{
		generator: generator,
		results:   cache.New(resultTTL, cleanupPeriod),
	}
}

// Search looks up brands and generics for query. Answers are cached per
// normalized query.
func (s *Service) Search(ctx context.Context, query string) (*model.MedicineSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	key := strings.ToLower(query)
	if cached, ok := s.results.Get(key); ok {
		res := cached.(model.MedicineSearchResult)
		return &res, nil
	}

	res, err := s.generator.SearchMedicine(ctx, query)
	if err != nil {
		return nil, err
	}
	s.results.SetDefault(key, *res)
	return res, nil
}
