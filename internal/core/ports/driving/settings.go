package driving

import "github.com/ikeepcalm/ad/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, falling back to
	// defaults for keys that are not configured.
	Get() (*domain.Settings, error)

	// Entries lists every configurable key with its effective value.
	Entries() ([]domain.SettingEntry, error)

	// Set parses, validates and persists a single key.
	Set(key, value string) error

	// Reset removes a key so its default applies again.
	Reset(key string) error

	// Path returns the configuration file path.
	Path() string

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
