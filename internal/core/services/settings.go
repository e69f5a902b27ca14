package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyDataDir        = "data.dir"
	keySortMemoryMB   = "sort.memory_mb"
	keySortTempDir    = "sort.temp_dir"
	keyBTreeDegree    = "btree.degree"
	keyUsersPageSize  = "users.page_size"
	keyQueensMaxNodes = "queens.max_nodes"
	keyQueensDelayMS  = "queens.delay_ms"
	keyACOAnts        = "aco.ants"
	keyACOIterations  = "aco.iterations"
	keyACOQuality     = "aco.quality"
	keyACOAlpha       = "aco.alpha"
	keyACOBeta        = "aco.beta"
	keyACORho         = "aco.rho"
	keyACOVertices    = "aco.vertices"
	keyTunerCities    = "tuner.cities"
	keyTunerTimeLimit = "tuner.time_limit"
	keyTunerWorkers   = "tuner.workers"
)

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindDuration
)

// setting binds a config key to a field of domain.Settings.
type setting struct {
	key    string
	kind   settingKind
	str    func(s *domain.Settings) *string
	num    func(s *domain.Settings) *int
	float  func(s *domain.Settings) *float64
	period func(s *domain.Settings) *time.Duration
}

var settingsTable = []setting{
	{key: keyDataDir, kind: kindString, str: func(s *domain.Settings) *string { return &s.DataDir }},
	{key: keySortMemoryMB, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Sort.MemoryMB }},
	{key: keySortTempDir, kind: kindString, str: func(s *domain.Settings) *string { return &s.Sort.TempDir }},
	{key: keyBTreeDegree, kind: kindInt, num: func(s *domain.Settings) *int { return &s.BTree.Degree }},
	{key: keyUsersPageSize, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Users.PageSize }},
	{key: keyQueensMaxNodes, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Queens.MaxNodes }},
	{key: keyQueensDelayMS, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Queens.DelayMS }},
	{key: keyACOAnts, kind: kindInt, num: func(s *domain.Settings) *int { return &s.ACO.Ants }},
	{key: keyACOIterations, kind: kindInt, num: func(s *domain.Settings) *int { return &s.ACO.Iterations }},
	{key: keyACOQuality, kind: kindInt, num: func(s *domain.Settings) *int { return &s.ACO.Quality }},
	{key: keyACOAlpha, kind: kindFloat, float: func(s *domain.Settings) *float64 { return &s.ACO.Alpha }},
	{key: keyACOBeta, kind: kindFloat, float: func(s *domain.Settings) *float64 { return &s.ACO.Beta }},
	{key: keyACORho, kind: kindFloat, float: func(s *domain.Settings) *float64 { return &s.ACO.Rho }},
	{key: keyACOVertices, kind: kindInt, num: func(s *domain.Settings) *int { return &s.ACO.Vertices }},
	{key: keyTunerCities, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Tuner.Cities }},
	{key: keyTunerTimeLimit, kind: kindDuration, period: func(s *domain.Settings) *time.Duration { return &s.Tuner.TimeLimit }},
	{key: keyTunerWorkers, kind: kindInt, num: func(s *domain.Settings) *int { return &s.Tuner.Workers }},
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingsTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// SettingKeys returns every configurable key in display order.
func SettingKeys() []string {
	keys := make([]string, len(settingsTable))
	for i, st := range settingsTable {
		keys[i] = st.key
	}
	return keys
}

// ParseDuration reads a time limit such as "500ms", "30s", "5m" or "1h".
// A bare number is taken as seconds.
func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: time limit %q: use ms, s, m or h", domain.ErrInvalidInput, value)
	}
	return d, nil
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Stored values that are
// missing or malformed fall back to defaults.
func (s *SettingsService) Get() (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	for _, st := range settingsTable {
		s.apply(st, settings)
	}
	return settings, nil
}

func (s *SettingsService) apply(st setting, settings *domain.Settings) {
	raw, ok := s.configStore.Get(st.key)
	if !ok {
		return
	}
	switch st.kind {
	case kindString:
		if v, ok := raw.(string); ok {
			*st.str(settings) = v
		}
	case kindInt:
		if v, ok := asInt(raw); ok {
			*st.num(settings) = v
		}
	case kindFloat:
		if v, ok := asFloat(raw); ok {
			*st.float(settings) = v
		}
	case kindDuration:
		if v, ok := raw.(string); ok {
			if d, err := ParseDuration(v); err == nil && d > 0 {
				*st.period(settings) = d
			}
		}
	}
}

// asInt accepts the integer shapes TOML decoding and callers produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Entries lists every configurable key with its effective value.
func (s *SettingsService) Entries() ([]domain.SettingEntry, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	entries := make([]domain.SettingEntry, 0, len(settingsTable))
	for _, st := range settingsTable {
		_, stored := s.configStore.Get(st.key)
		entries = append(entries, domain.SettingEntry{
			Key:     st.key,
			Value:   format(st, settings),
			Default: !stored,
		})
	}
	return entries, nil
}

func format(st setting, settings *domain.Settings) string {
	switch st.kind {
	case kindInt:
		return strconv.Itoa(*st.num(settings))
	case kindFloat:
		return strconv.FormatFloat(*st.float(settings), 'g', -1, 64)
	case kindDuration:
		return st.period(settings).String()
	default:
		return *st.str(settings)
	}
}

// Set parses, validates and persists a single key.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	var stored any
	switch st.kind {
	case kindString:
		*st.str(settings) = value
		stored = value
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		*st.num(settings) = n
		stored = int64(n)
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		*st.float(settings) = f
		stored = f
	case kindDuration:
		d, err := ParseDuration(value)
		if err != nil {
			return err
		}
		*st.period(settings) = d
		stored = d.String()
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes a key so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := lookupSetting(key); !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return *domain.DefaultSettings()
}
