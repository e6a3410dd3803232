// Package testhelpers provides shared fixtures for package tests.
package testhelpers

import (
	"time"

	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/models"
)

// NewTestLogger creates a logger suitable for testing (discards output).
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}

// BoolPtr returns a pointer to the given bool.
func BoolPtr(v bool) *bool {
	return &v
}

// IntPtr returns a pointer to the given int.
func IntPtr(v int) *int {
	return &v
}

// RecentTimestamp returns an ISO timestamp two days in the past, safely
// inside any stale threshold.
func RecentTimestamp() string {
	return time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
}

// StaleTimestamp returns an ISO timestamp the given number of days in the past.
func StaleTimestamp(days int) string {
	return time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour).Format(time.RFC3339)
}

// PublicBoard returns a board state with a public edit-capable link,
// suitable as a high-risk scan fixture.
func PublicBoard(id string) models.BoardState {
	return models.BoardState{
		ID:               id,
		Name:             "Board " + id,
		Owner:            "owner@example.com",
		Team:             "Test Team",
		ModifiedAt:       RecentTimestamp(),
		EditorCount:      IntPtr(2),
		PublicAccess:     BoolPtr(true),
		PublicEditAccess: BoolPtr(true),
	}
}

// PrivateBoard returns a clean, recently modified private board state.
func PrivateBoard(id string) models.BoardState {
	return models.BoardState{
		ID:           id,
		Name:         "Board " + id,
		Owner:        "owner@example.com",
		Team:         "Test Team",
		ModifiedAt:   RecentTimestamp(),
		EditorCount:  IntPtr(1),
		PublicAccess: BoolPtr(false),
	}
}
