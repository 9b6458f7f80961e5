package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
)

var (
	ErrUnknownTheme  = errors.New("unknown theme")
	ErrInvalidSlot   = errors.New("invalid banner slot")
	ErrInvalidList   = errors.New("invalid list name")
	ErrEmptyItem     = errors.New("item must not be blank")
	ErrDuplicateItem = errors.New("item already exists")
)

type Service struct {
	repo repository.SettingsRepository
}

func NewService(repo repository.SettingsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (model.AppSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (s *Service) Themes() []model.Theme {
	return model.Themes()
}

// ActiveTheme resolves the stored theme id, falling back to the default.
func (s *Service) ActiveTheme(ctx context.Context) (model.Theme, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return model.Theme{}, err
	}
	return model.ResolveTheme(settings.ActiveThemeID), nil
}

func (s *Service) update(ctx context.Context, fn func(*model.AppSettings) error) (model.AppSettings, error) {
	settings, err := s.repo.Update(ctx, fn)
	if err != nil {
		if errors.Is(err, ErrDuplicateItem) || errors.Is(err, repository.ErrNotFound) {
			return settings, err
		}
		return settings, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}

func (s *Service) SetTheme(ctx context.Context, themeID string) (model.AppSettings, error) {
	if _, ok := model.FindTheme(themeID); !ok {
		return model.AppSettings{}, ErrUnknownTheme
	}
	return s.update(ctx, func(st *model.AppSettings) error {
		st.ActiveThemeID = themeID
		return nil
	})
}

// SetBanner stores image in slot. An empty image clears the slot.
func (s *Service) SetBanner(ctx context.Context, slot model.BannerSlot, image string) (model.AppSettings, error) {
	if !slot.Valid() {
		return model.AppSettings{}, ErrInvalidSlot
	}
	return s.update(ctx, func(st *model.AppSettings) error {
		st.Banners.Set(slot, image)
		return nil
	})
}

func (s *Service) UpdateDoctor(ctx context.Context, doctor model.DoctorDetails) (model.AppSettings, error) {
	return s.update(ctx, func(st *model.AppSettings) error {
		st.DoctorDetails = doctor
		return nil
	})
}

func (s *Service) UpdateBranding(ctx context.Context, req *model.UpdateBrandingRequest) (model.AppSettings, error) {
	return s.update(ctx, func(st *model.AppSettings) error {
		for _, f := range []struct {
			src *string
			dst *string
		}{
			{req.PrescriptionTitle, &st.PrescriptionTitle},
			{req.PrescriptionSubtitle, &st.PrescriptionSubtitle},
			{req.HomeWelcomeTitle, &st.HomeWelcomeTitle},
			{req.HomeWelcomeSubtitle, &st.HomeWelcomeSubtitle},
			{req.HomeFooterText, &st.HomeFooterText},
			{req.WebsiteURL, &st.WebsiteURL},
			{req.SignatureImage, &st.SignatureImage},
		} {
			if f.src != nil {
				*f.dst = *f.src
			}
		}
		return nil
	})
}

// AddListItem appends a trimmed, non-blank, new item to the named list.
func (s *Service) AddListItem(ctx context.Context, list model.ListName, item string) (model.AppSettings, error) {
	item = strings.TrimSpace(item)
	if !list.Valid() {
		return model.AppSettings{}, ErrInvalidList
	}
	if item == "" {
		return model.AppSettings{}, ErrEmptyItem
	}
	return s.update(ctx, func(st *model.AppSettings) error {
		items := st.List(list)
		if slices.Contains(*items, item) {
			return ErrDuplicateItem
		}
		*items = append(*items, item)
		return nil
	})
}

func (s *Service) RemoveListItem(ctx context.Context, list model.ListName, item string) (model.AppSettings, error) {
	item = strings.TrimSpace(item)
	if !list.Valid() {
		return model.AppSettings{}, ErrInvalidList
	}
	return s.update(ctx, func(st *model.AppSettings) error {
		items := st.List(list)
		i := slices.Index(*items, item)
		if i < 0 {
			return repository.ErrNotFound
		}
		*items = slices.Delete(*items, i, i+1)
		return nil
	})
}
