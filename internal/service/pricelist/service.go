package pricelist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

var ErrMissingFields = errors.New("name and price are required")

type Service struct {
	repo repository.PriceListRepository
}

func NewService(repo repository.PriceListRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]model.PriceListItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.PriceListItem, error) {
	return s.repo.Get(ctx, id)
}

// Upsert updates the item named by req.ID in place, or inserts a new item
// when req.ID is empty.
func (s *Service) Upsert(ctx context.Context, req *model.UpsertPriceItemRequest) (*model.PriceListItem, error) {
	item := &model.PriceListItem{
		ID:       strings.TrimSpace(req.ID),
		Name:     strings.TrimSpace(req.Name),
		Generic:  strings.TrimSpace(req.Generic),
		Company:  strings.TrimSpace(req.Company),
		Price:    strings.TrimSpace(req.Price),
		Category: strings.TrimSpace(req.Category),
		Unit:     strings.TrimSpace(req.Unit),
	}
	if item.Name == "" || item.Price == "" {
		return nil, ErrMissingFields
	}
	if item.Category == "" {
		item.Category = model.DefaultPriceCategory
	}
	if item.Unit == "" {
		item.Unit = model.DefaultPriceUnit
	}

	if err := s.repo.Upsert(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save price item: %w", err)
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete price item: %w", err)
	}
	return nil
}
