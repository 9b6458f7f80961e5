package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/mediconsult-api/internal/model"
	"github.com/jwalitptl/mediconsult-api/internal/repository"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/store/memory"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
)

func setup() *Service {
	repos := kv.New(store.NewCodec(memory.New(), store.DefaultPrefix, kv.Schema(), logger.Nop()))
	return NewService(repos.Settings)
}

func TestDefaults(t *testing.T) {
	svc := setup()
	st, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), st)

	theme, err := svc.ActiveTheme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultThemeID, theme.ID)
	assert.Len(t, svc.Themes(), 10)
}

func TestSetThemeAndBanner(t *testing.T) {
	ctx := context.Background()
	svc := setup()

	_, err := svc.SetTheme(ctx, "no-such-theme")
	assert.ErrorIs(t, err, ErrUnknownTheme)

	theme := svc.Themes()[3].ID
	st, err := svc.SetTheme(ctx, theme)
	require.NoError(t, err)
	assert.Equal(t, theme, st.ActiveThemeID)

	st, err = svc.SetBanner(ctx, model.BannerHomeHeader, "data:image/png;base64,AAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAA", st.Banners.HomeHeader)

	st, err = svc.SetBanner(ctx, model.BannerHomeHeader, "")
	require.NoError(t, err)
	assert.Empty(t, st.Banners.HomeHeader)

	_, err = svc.SetBanner(ctx, "sidebar", "x")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	svc := setup()

	st, err := svc.AddListItem(ctx, model.ListSymptoms, "  চুলকানি (Itching) ")
	require.NoError(t, err)
	assert.Equal(t, "চুলকানি (Itching)", st.Symptoms[len(st.Symptoms)-1])

	_, err = svc.AddListItem(ctx, model.ListSymptoms, "চুলকানি (Itching)")
	assert.ErrorIs(t, err, ErrDuplicateItem)
	_, err = svc.AddListItem(ctx, model.ListTests, "  ")
	assert.ErrorIs(t, err, ErrEmptyItem)
	_, err = svc.AddListItem(ctx, "drugs", "x")
	assert.ErrorIs(t, err, ErrInvalidList)

	st, err = svc.RemoveListItem(ctx, model.ListHistories, "হাঁপানি (Asthma)")
	require.NoError(t, err)
	assert.NotContains(t, st.MedicalHistories, "হাঁপানি (Asthma)")

	_, err = svc.RemoveListItem(ctx, model.ListHistories, "হাঁপানি (Asthma)")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBrandingAndDoctor(t *testing.T) {
	ctx := context.Background()
	svc := setup()
	title := "Rural Clinic"

	st, err := svc.UpdateBranding(ctx, &model.UpdateBrandingRequest{PrescriptionTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "Rural Clinic", st.PrescriptionTitle)
	assert.Equal(t, model.DefaultSettings().HomeWelcomeTitle, st.HomeWelcomeTitle)

	doctor := model.DoctorDetails{Name: "Dr. Karim", Degree: "MBBS"}
	st, err = svc.UpdateDoctor(ctx, doctor)
	require.NoError(t, err)
	assert.Equal(t, doctor, st.DoctorDetails)
}
