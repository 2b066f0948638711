package service

import (
	"context"
	"testing"
	"time"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
	"github.com/budgetloop/budgetloop-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsService() (*SettingsService, *testutil.MockPreferencesRepository, *event.Recorder) {
	repo := testutil.NewMockPreferencesRepository()
	recorder := &event.Recorder{}
	svc := NewSettingsService(repo)
	svc.SetEventPublisher(recorder)
	return svc, repo, recorder
}

func TestGetSettings_DefaultsWhenMissing(t *testing.T) {
	svc, _, _ := newSettingsService()

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestUpdateSettings(t *testing.T) {
	svc, repo, recorder := newSettingsService()

	theme := domain.ThemeDark
	currency := " usd "
	settings, err := svc.UpdateSettings(context.Background(), &domain.SettingsPatch{Theme: &theme, Currency: &currency})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, settings.Theme)
	assert.Equal(t, "USD", settings.Currency)
	assert.Equal(t, domain.DefaultLocale, settings.Language)

	require.NotNil(t, repo.Settings)
	assert.Equal(t, "USD", repo.Settings.Currency)
	assert.Equal(t, []string{"settings.updated"}, recorder.Types())
}

func TestUpdateSettings_Invalid(t *testing.T) {
	svc, repo, _ := newSettingsService()

	language := "fr-FR"
	_, err := svc.UpdateSettings(context.Background(), &domain.SettingsPatch{Language: &language})
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	assert.Nil(t, repo.Settings)

	display := domain.DisplaySettings{ItemsPerPage: 500}
	_, err = svc.UpdateSettings(context.Background(), &domain.SettingsPatch{Display: &display})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateSettings_StorageError(t *testing.T) {
	svc, repo, recorder := newSettingsService()
	repo.SaveErr = domain.ErrStorage

	theme := domain.ThemeLight
	_, err := svc.UpdateSettings(context.Background(), &domain.SettingsPatch{Theme: &theme})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, recorder.Types())
}

func TestResetSettings(t *testing.T) {
	svc, repo, _ := newSettingsService()
	repo.Settings = &domain.Settings{Theme: domain.ThemeDark}

	settings, err := svc.ResetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
	assert.Nil(t, repo.Settings)
}

func TestFilters_SaveGetReset(t *testing.T) {
	svc, repo, recorder := newSettingsService()

	filters, err := svc.GetFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFilters(), *filters)

	saved, err := svc.SaveFilters(context.Background(), &domain.TransactionFilters{
		Type:   string(domain.TransactionTypeExpense),
		Search: "mercado",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Page)
	assert.Equal(t, domain.DefaultPageSize, saved.PageSize)

	filters, err = svc.GetFilters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mercado", filters.Search)

	_, err = svc.ResetFilters(context.Background())
	require.NoError(t, err)
	assert.Nil(t, repo.Filters)
	assert.Equal(t, []string{"filters.updated", "filters.updated"}, recorder.Types())
}

func TestSaveFilters_Invalid(t *testing.T) {
	svc, repo, _ := newSettingsService()

	_, err := svc.SaveFilters(context.Background(), &domain.TransactionFilters{PageSize: 1000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	start := testutil.Date(2024, time.February, 1)
	end := testutil.Date(2024, time.January, 1)
	_, err = svc.SaveFilters(context.Background(), &domain.TransactionFilters{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	assert.Nil(t, repo.Filters)
}
