package service

import (
	"context"
	"errors"

	"github.com/budgetloop/budgetloop-backend/internal/domain"
	"github.com/budgetloop/budgetloop-backend/internal/event"
)

// SettingsService manages user settings and the saved transaction filters
type SettingsService struct {
	prefsRepo      domain.PreferencesRepository
	eventPublisher event.Publisher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(prefsRepo domain.PreferencesRepository) *SettingsService {
	return &SettingsService{prefsRepo: prefsRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SettingsService) SetEventPublisher(publisher event.Publisher) {
	s.eventPublisher = publisher
}

func (s *SettingsService) publishEvent(evt event.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(evt)
	}
}

// GetSettings returns the stored settings, or the defaults when none are stored.
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.prefsRepo.GetSettings(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings merges patch into the current settings.
func (s *SettingsService) UpdateSettings(ctx context.Context, patch *domain.SettingsPatch) (*domain.Settings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	patch.Apply(settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := s.prefsRepo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}

	s.publishEvent(event.SettingsUpdated(settings))
	return settings, nil
}

// ResetSettings drops the stored settings and returns the defaults.
func (s *SettingsService) ResetSettings(ctx context.Context) (*domain.Settings, error) {
	if err := s.prefsRepo.DeleteSettings(ctx); err != nil {
		return nil, err
	}
	settings := domain.DefaultSettings()
	s.publishEvent(event.SettingsUpdated(settings))
	return settings, nil
}

// GetFilters returns the saved filters, or the defaults when none are saved.
func (s *SettingsService) GetFilters(ctx context.Context) (*domain.TransactionFilters, error) {
	filters, err := s.prefsRepo.GetFilters(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		defaults := domain.DefaultFilters()
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return filters, nil
}

// SaveFilters stores the filter specification. Page and page size fall
// back to the defaults when unset.
func (s *SettingsService) SaveFilters(ctx context.Context, filters *domain.TransactionFilters) (*domain.TransactionFilters, error) {
	saved := *filters
	if saved.Page < 1 {
		saved.Page = 1
	}
	if saved.PageSize < 1 {
		saved.PageSize = domain.DefaultPageSize
	}
	if saved.PageSize > domain.MaxPageSize {
		return nil, domain.NewFieldError("pageSize", domain.ErrInvalidInput)
	}
	if saved.StartDate != nil && saved.EndDate != nil && saved.EndDate.Before(*saved.StartDate) {
		return nil, domain.NewFieldError("endDate", domain.ErrInvalidDateRange)
	}
	if err := s.prefsRepo.SaveFilters(ctx, &saved); err != nil {
		return nil, err
	}

	s.publishEvent(event.FiltersUpdated(saved))
	return &saved, nil
}

// ResetFilters drops the saved filters and returns the defaults.
func (s *SettingsService) ResetFilters(ctx context.Context) (*domain.TransactionFilters, error) {
	if err := s.prefsRepo.DeleteFilters(ctx); err != nil {
		return nil, err
	}
	defaults := domain.DefaultFilters()
	s.publishEvent(event.FiltersUpdated(defaults))
	return &defaults, nil
}
