// Package repository provides typed access to scan, probe, settings and
// session records on top of the keyed store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/store"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Key prefixes. Every record type gets its own namespace in the store.
const (
	keyScan       = "scan:"
	keyUserScans  = "user-scans:"
	keyProbe      = "probe:"
	keySettings   = "settings:"
	keySession    = "session:"
	keyOAuthState = "oauth-state:"
)

// maxScanIndex caps how many scan ids are kept per user, newest first.
const maxScanIndex = 100

// Repository bundles the typed record operations.
type Repository struct {
	store store.Store
	log   logger.Logger
}

// New creates a Repository over the given store.
func New(s store.Store, log logger.Logger) *Repository {
	return &Repository{store: s, log: log}
}

// PutScan stores a scan record and prepends its id to the owner's index.
func (r *Repository) PutScan(ctx context.Context, userID string, record models.ScanRecord) error {
	if err := r.store.Put(ctx, keyScan+record.Summary.ID, record); err != nil {
		return fmt.Errorf("store scan: %w", err)
	}

	var ids []string
	if err := r.store.Get(ctx, keyUserScans+userID, &ids); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load scan index: %w", err)
	}

	ids = append([]string{record.Summary.ID}, ids...)
	if len(ids) > maxScanIndex {
		ids = ids[:maxScanIndex]
	}

	if err := r.store.Put(ctx, keyUserScans+userID, ids); err != nil {
		return fmt.Errorf("store scan index: %w", err)
	}
	return nil
}

// GetScan loads one scan record by id.
func (r *Repository) GetScan(ctx context.Context, scanID string) (models.ScanRecord, error) {
	var record models.ScanRecord
	err := r.store.Get(ctx, keyScan+scanID, &record)
	if errors.Is(err, store.ErrNotFound) {
		return models.ScanRecord{}, ErrNotFound
	}
	if err != nil {
		return models.ScanRecord{}, fmt.Errorf("load scan: %w", err)
	}
	return record, nil
}

// ListScanSummaries returns the user's scan summaries, newest first. Index
// entries whose record has vanished are skipped rather than failing the list.
func (r *Repository) ListScanSummaries(ctx context.Context, userID string) ([]models.ScanSummary, error) {
	var ids []string
	err := r.store.Get(ctx, keyUserScans+userID, &ids)
	if errors.Is(err, store.ErrNotFound) {
		return []models.ScanSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scan index: %w", err)
	}

	summaries := make([]models.ScanSummary, 0, len(ids))
	for _, id := range ids {
		record, getErr := r.GetScan(ctx, id)
		if getErr != nil {
			r.log.Debug("Skipping missing scan from index",
				logger.String("scan_id", id),
				logger.Error(getErr),
			)
			continue
		}
		summaries = append(summaries, record.Summary)
	}
	return summaries, nil
}

// PutProbeSession stores a probe session.
func (r *Repository) PutProbeSession(ctx context.Context, session models.ProbeSession) error {
	if err := r.store.Put(ctx, keyProbe+session.ID, session); err != nil {
		return fmt.Errorf("store probe session: %w", err)
	}
	return nil
}

// GetProbeSession loads one probe session by id.
func (r *Repository) GetProbeSession(ctx context.Context, sessionID string) (models.ProbeSession, error) {
	var session models.ProbeSession
	err := r.store.Get(ctx, keyProbe+sessionID, &session)
	if errors.Is(err, store.ErrNotFound) {
		return models.ProbeSession{}, ErrNotFound
	}
	if err != nil {
		return models.ProbeSession{}, fmt.Errorf("load probe session: %w", err)
	}
	return session, nil
}

// GetSettings returns the user's settings merged over the defaults, so the
// caller always sees a fully resolved configuration.
func (r *Repository) GetSettings(ctx context.Context, userID string) (models.SettingsConfig, error) {
	var settings models.SettingsConfig
	err := r.store.Get(ctx, keySettings+userID, &settings)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.SettingsConfig{}, fmt.Errorf("load settings: %w", err)
	}
	return settings.Merged(), nil
}

// PutSettings stores the user's settings. Last write wins.
func (r *Repository) PutSettings(ctx context.Context, userID string, settings models.SettingsConfig) error {
	if err := r.store.Put(ctx, keySettings+userID, settings); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}

// PutSession stores a provider session.
func (r *Repository) PutSession(ctx context.Context, session models.BoardSession) error {
	if err := r.store.Put(ctx, keySession+session.ID, session); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// GetSession loads a provider session by id.
func (r *Repository) GetSession(ctx context.Context, sessionID string) (models.BoardSession, error) {
	var session models.BoardSession
	err := r.store.Get(ctx, keySession+sessionID, &session)
	if errors.Is(err, store.ErrNotFound) {
		return models.BoardSession{}, ErrNotFound
	}
	if err != nil {
		return models.BoardSession{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

// PutOAuthState records a pending OAuth state token.
func (r *Repository) PutOAuthState(ctx context.Context, stateID string) error {
	state := models.OAuthState{ID: stateID, CreatedAt: time.Now().UnixMilli()}
	if err := r.store.Put(ctx, keyOAuthState+stateID, state); err != nil {
		return fmt.Errorf("store oauth state: %w", err)
	}
	return nil
}

// ConsumeOAuthState deletes the state token and reports whether it existed and
// was still within its TTL. States are single-use regardless of outcome.
func (r *Repository) ConsumeOAuthState(ctx context.Context, stateID string, ttl time.Duration) (bool, error) {
	var state models.OAuthState
	err := r.store.Get(ctx, keyOAuthState+stateID, &state)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load oauth state: %w", err)
	}

	if delErr := r.store.Delete(ctx, keyOAuthState+stateID); delErr != nil {
		return false, fmt.Errorf("consume oauth state: %w", delErr)
	}

	age := time.Since(time.UnixMilli(state.CreatedAt))
	return age <= ttl, nil
}
