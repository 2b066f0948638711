package handler

import (
	"net/http"
	"testing"

	"github.com/budgetloop/budgetloop-backend/internal/api"
	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_Defaults(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/settings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, *domain.DefaultSettings(), decodeBody[domain.Settings](t, rec))
}

func TestUpdateSettings_MergesAndPersists(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPut, "/api/settings", `{"theme": "dark", "currency": "usd"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[domain.Settings](t, rec)
	assert.Equal(t, domain.ThemeDark, body.Theme)
	assert.Equal(t, "USD", body.Currency)
	assert.Equal(t, domain.LocalePtBR, body.Language)

	rec = a.do(http.MethodGet, "/api/settings", "")
	assert.Equal(t, domain.ThemeDark, decodeBody[domain.Settings](t, rec).Theme)
	assert.Equal(t, []string{"settings.updated"}, a.events.Types())
}

func TestUpdateSettings_Invalid(t *testing.T) {
	tests := map[string]string{
		"theme":                `{"theme": "neon"}`,
		"language":             `{"language": "fr-FR"}`,
		"display.itemsPerPage": `{"display": {"itemsPerPage": 1000, "showCents": true}}`,
	}

	for field, body := range tests {
		t.Run(field, func(t *testing.T) {
			a := newTestAPI(t)

			rec := a.do(http.MethodPut, "/api/settings", body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			errs := decodeBody[api.ErrorResponse](t, rec).Errors
			require.Len(t, errs, 1)
			assert.Equal(t, field, errs[0].Field)
			assert.Nil(t, a.prefsRepo.Settings)
		})
	}
}

func TestUpdateSettings_UnknownKeysRejected(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPut, "/api/settings", `{"theme": "dark", "display": {"density": "compact"}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, a.prefsRepo.Settings)
	assert.Empty(t, a.events.Types())
}

func TestResetSettings(t *testing.T) {
	a := newTestAPI(t)
	a.do(http.MethodPut, "/api/settings", `{"theme": "light"}`)

	rec := a.do(http.MethodDelete, "/api/settings", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ThemeSystem, decodeBody[domain.Settings](t, rec).Theme)
	assert.Nil(t, a.prefsRepo.Settings)
}

func TestFilters_SaveLoadReset(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodGet, "/api/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultFilters(), decodeBody[domain.TransactionFilters](t, rec))

	rec = a.do(http.MethodPut, "/api/filters", `{"type": "expense", "search": "mercado", "tags": ["casa"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decodeBody[domain.TransactionFilters](t, rec)
	assert.Equal(t, "expense", saved.Type)
	assert.Equal(t, 1, saved.Page)
	assert.Equal(t, domain.DefaultPageSize, saved.PageSize)

	rec = a.do(http.MethodGet, "/api/filters", "")
	loaded := decodeBody[domain.TransactionFilters](t, rec)
	assert.Equal(t, "mercado", loaded.Search)
	assert.Equal(t, []string{"casa"}, loaded.Tags)

	rec = a.do(http.MethodDelete, "/api/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.DefaultFilters(), decodeBody[domain.TransactionFilters](t, rec))
	assert.Nil(t, a.prefsRepo.Filters)
}

func TestSaveFilters_Invalid(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPut, "/api/filters", `{"pageSize": 500}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, a.prefsRepo.Filters)
}
