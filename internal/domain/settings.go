package domain

import (
	"context"
	"strings"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Supported locales.
const (
	LocalePtBR = "pt-BR"
	LocaleEnUS = "en-US"
	LocaleEsES = "es-ES"
)

// DefaultLocale is used whenever a locale is missing or unsupported.
const DefaultLocale = LocalePtBR

// IsSupportedLocale reports whether locale is one of the supported locales.
func IsSupportedLocale(locale string) bool {
	return locale == LocalePtBR || locale == LocaleEnUS || locale == LocaleEsES
}

type NotificationSettings struct {
	BudgetAlerts  bool `json:"budgetAlerts"`
	GoalReminders bool `json:"goalReminders"`
	WeeklyReport  bool `json:"weeklyReport"`
}

type DisplaySettings struct {
	ItemsPerPage int  `json:"itemsPerPage"`
	ShowCents    bool `json:"showCents"`
}

type Settings struct {
	Theme         Theme                `json:"theme"`
	Language      string               `json:"language"`
	Currency      string               `json:"currency"`
	DateFormat    string               `json:"dateFormat"`
	Notifications NotificationSettings `json:"notifications"`
	Display       DisplaySettings      `json:"display"`
}

// DefaultSettings returns the settings of a fresh installation.
func DefaultSettings() *Settings {
	return &Settings{
		Theme:      ThemeSystem,
		Language:   DefaultLocale,
		Currency:   "BRL",
		DateFormat: "dd/MM/yyyy",
		Notifications: NotificationSettings{
			BudgetAlerts:  true,
			GoalReminders: true,
		},
		Display: DisplaySettings{
			ItemsPerPage: DefaultPageSize,
			ShowCents:    true,
		},
	}
}

func (s *Settings) Validate() error {
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return NewFieldError("theme", ErrInvalidSettings)
	}
	if !IsSupportedLocale(s.Language) {
		return NewFieldError("language", ErrInvalidSettings)
	}
	if len(s.Currency) != 3 || strings.ToUpper(s.Currency) != s.Currency {
		return NewFieldError("currency", ErrInvalidSettings)
	}
	if s.Display.ItemsPerPage < MinPageSize || s.Display.ItemsPerPage > MaxPageSize {
		return NewFieldError("display.itemsPerPage", ErrInvalidSettings)
	}
	return nil
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Theme         *Theme                `json:"theme,omitempty"`
	Language      *string               `json:"language,omitempty"`
	Currency      *string               `json:"currency,omitempty"`
	DateFormat    *string               `json:"dateFormat,omitempty"`
	Notifications *NotificationSettings `json:"notifications,omitempty"`
	Display       *DisplaySettings      `json:"display,omitempty"`
}

func (p *SettingsPatch) Apply(s *Settings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Currency != nil {
		s.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.DateFormat != nil {
		s.DateFormat = *p.DateFormat
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.Display != nil {
		s.Display = *p.Display
	}
}

// PreferencesRepository stores user settings and the saved filter
// specification. Getters return ErrNotFound when nothing is stored.
type PreferencesRepository interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error
	DeleteSettings(ctx context.Context) error
	GetFilters(ctx context.Context) (*TransactionFilters, error)
	SaveFilters(ctx context.Context, filters *TransactionFilters) error
	DeleteFilters(ctx context.Context) error
}
