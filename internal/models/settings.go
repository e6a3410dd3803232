package models

import (
	"errors"
	"fmt"
)

// Default thresholds and limits.
const (
	DefaultStaleDaysThreshold  = 90
	DefaultMaxEditorsThreshold = 10

	MaxStaleDaysThreshold  = 365
	MaxMaxEditorsThreshold = 1000
	MaxSensitiveKeywords   = 100
	MaxCheckWeight         = 100
)

// DefaultCheckWeights are the out-of-the-box weights per check.
var DefaultCheckWeights = map[CheckType]int{
	CheckPublicLink:       30,
	CheckPublicEditAccess: 20,
	CheckStale:            10,
	CheckEditors:          10,
	CheckSensitiveText:    15,
}

// DefaultSensitiveKeywords are the out-of-the-box sensitive-content keywords.
// Matching is case-insensitive substring.
var DefaultSensitiveKeywords = []string{
	"password", "secret", "API key", "token", "SSN", "credit card", "private key",
}

// DefaultSettings returns a fresh default configuration. Callers own the result
// and may mutate it freely.
func DefaultSettings() SettingsConfig {
	checks := make(map[CheckType]RiskCheckSetting, len(AllChecks))
	for _, check := range AllChecks {
		checks[check] = RiskCheckSetting{Enabled: true, Weight: DefaultCheckWeights[check]}
	}

	keywords := make([]string, len(DefaultSensitiveKeywords))
	copy(keywords, DefaultSensitiveKeywords)

	return SettingsConfig{
		StaleDaysThreshold:  DefaultStaleDaysThreshold,
		MaxEditorsThreshold: DefaultMaxEditorsThreshold,
		SensitiveKeywords:   keywords,
		RiskChecks:          checks,
	}
}

// Validate checks that the settings are within their documented bounds.
func (c SettingsConfig) Validate() error {
	if c.StaleDaysThreshold < 1 || c.StaleDaysThreshold > MaxStaleDaysThreshold {
		return fmt.Errorf("staleDaysThreshold must be between 1 and %d", MaxStaleDaysThreshold)
	}
	if c.MaxEditorsThreshold < 1 || c.MaxEditorsThreshold > MaxMaxEditorsThreshold {
		return fmt.Errorf("maxEditorsThreshold must be between 1 and %d", MaxMaxEditorsThreshold)
	}
	if len(c.SensitiveKeywords) > MaxSensitiveKeywords {
		return fmt.Errorf("at most %d sensitive keywords are allowed", MaxSensitiveKeywords)
	}
	for _, keyword := range c.SensitiveKeywords {
		if keyword == "" {
			return errors.New("sensitive keywords must not be empty")
		}
	}
	for check, setting := range c.RiskChecks {
		if _, known := DefaultCheckWeights[check]; !known {
			return fmt.Errorf("unknown risk check %q", check)
		}
		if setting.Weight < 0 || setting.Weight > MaxCheckWeight {
			return fmt.Errorf("risk check %q weight must be between 0 and %d", check, MaxCheckWeight)
		}
	}
	return nil
}

// Merged overlays the receiver onto the defaults so partially stored settings
// always resolve every field.
func (c SettingsConfig) Merged() SettingsConfig {
	merged := DefaultSettings()
	if c.StaleDaysThreshold > 0 {
		merged.StaleDaysThreshold = c.StaleDaysThreshold
	}
	if c.MaxEditorsThreshold > 0 {
		merged.MaxEditorsThreshold = c.MaxEditorsThreshold
	}
	if c.SensitiveKeywords != nil {
		merged.SensitiveKeywords = c.SensitiveKeywords
	}
	for check, setting := range c.RiskChecks {
		merged.RiskChecks[check] = setting
	}
	return merged
}
