package models_test

import (
	"testing"

	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := models.DefaultSettings()

	assert.Equal(t, 90, settings.StaleDaysThreshold)
	assert.Equal(t, 10, settings.MaxEditorsThreshold)
	assert.Contains(t, settings.SensitiveKeywords, "password")

	require.Len(t, settings.RiskChecks, len(models.AllChecks))
	assert.Equal(t, 30, settings.RiskChecks[models.CheckPublicLink].Weight)
	assert.Equal(t, 20, settings.RiskChecks[models.CheckPublicEditAccess].Weight)
	assert.Equal(t, 10, settings.RiskChecks[models.CheckStale].Weight)
	assert.Equal(t, 10, settings.RiskChecks[models.CheckEditors].Weight)
	assert.Equal(t, 15, settings.RiskChecks[models.CheckSensitiveText].Weight)
	for _, check := range models.AllChecks {
		assert.True(t, settings.RiskChecks[check].Enabled, string(check))
	}
}

func TestDefaultSettingsIsACopy(t *testing.T) {
	first := models.DefaultSettings()
	first.SensitiveKeywords[0] = "mutated"
	first.RiskChecks[models.CheckPublicLink] = models.RiskCheckSetting{Enabled: false, Weight: 99}

	second := models.DefaultSettings()
	assert.Equal(t, "password", second.SensitiveKeywords[0])
	assert.True(t, second.RiskChecks[models.CheckPublicLink].Enabled)
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.SettingsConfig)
		wantErr bool
	}{
		{"defaults are valid", func(*models.SettingsConfig) {}, false},
		{"stale threshold too low", func(s *models.SettingsConfig) { s.StaleDaysThreshold = 0 }, true},
		{"stale threshold too high", func(s *models.SettingsConfig) { s.StaleDaysThreshold = 366 }, true},
		{"editor threshold too low", func(s *models.SettingsConfig) { s.MaxEditorsThreshold = 0 }, true},
		{"editor threshold too high", func(s *models.SettingsConfig) { s.MaxEditorsThreshold = 1001 }, true},
		{"empty keyword", func(s *models.SettingsConfig) { s.SensitiveKeywords = []string{"ok", ""} }, true},
		{"too many keywords", func(s *models.SettingsConfig) {
			s.SensitiveKeywords = make([]string, 101)
			for i := range s.SensitiveKeywords {
				s.SensitiveKeywords[i] = "kw"
			}
		}, true},
		{"unknown check", func(s *models.SettingsConfig) {
			s.RiskChecks["made_up"] = models.RiskCheckSetting{Enabled: true, Weight: 10}
		}, true},
		{"weight above cap", func(s *models.SettingsConfig) {
			s.RiskChecks[models.CheckStale] = models.RiskCheckSetting{Enabled: true, Weight: 101}
		}, true},
		{"zero weight allowed", func(s *models.SettingsConfig) {
			s.RiskChecks[models.CheckStale] = models.RiskCheckSetting{Enabled: true, Weight: 0}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := models.DefaultSettings()
			tt.mutate(&settings)

			err := settings.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingsMerged(t *testing.T) {
	partial := models.SettingsConfig{
		StaleDaysThreshold: 30,
		RiskChecks: map[models.CheckType]models.RiskCheckSetting{
			models.CheckStale: {Enabled: false, Weight: 5},
		},
	}

	merged := partial.Merged()

	assert.Equal(t, 30, merged.StaleDaysThreshold)
	assert.Equal(t, models.DefaultMaxEditorsThreshold, merged.MaxEditorsThreshold)
	assert.Equal(t, models.DefaultSensitiveKeywords, merged.SensitiveKeywords)
	assert.Equal(t, models.RiskCheckSetting{Enabled: false, Weight: 5}, merged.RiskChecks[models.CheckStale])
	assert.Equal(t, models.RiskCheckSetting{Enabled: true, Weight: 30}, merged.RiskChecks[models.CheckPublicLink])
}

func TestSettingsCheckFallback(t *testing.T) {
	empty := models.SettingsConfig{}

	setting := empty.Check(models.CheckSensitiveText)
	assert.True(t, setting.Enabled)
	assert.Equal(t, 15, setting.Weight)

	configured := models.SettingsConfig{
		RiskChecks: map[models.CheckType]models.RiskCheckSetting{
			models.CheckSensitiveText: {Enabled: false, Weight: 7},
		},
	}
	setting = configured.Check(models.CheckSensitiveText)
	assert.False(t, setting.Enabled)
	assert.Equal(t, 7, setting.Weight)
}
