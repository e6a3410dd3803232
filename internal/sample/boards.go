// Package sample supplies a deterministic board fleet used when no provider
// credentials or session are available, so scans stay demonstrable end to end.
package sample

import (
	"time"

	"github.com/jonesrussell/boardwatch/internal/miro"
)

const day = 24 * time.Hour

// Boards returns the fallback board records. The set deliberately covers
// every risk check: a wide-open editable board, a view-only public board, a
// stale archive, an over-shared team board and a clean private board.
func Boards() []miro.BoardRecord {
	now := time.Now().UTC()

	return []miro.BoardRecord{
		{
			Raw: map[string]any{
				"id":          "board-q3-launch",
				"name":        "Q3 Launch War Room",
				"description": "Launch checklist. Staging admin password pinned top-left.",
				"modifiedAt":  now.Add(-3 * day).Format(time.RFC3339),
				"owner":       map[string]any{"email": "dana@example.com"},
				"team":        map[string]any{"name": "Product"},
				"sharingPolicy": map[string]any{
					"access": "anyone",
				},
				"publicEditAccess": true,
			},
			Members: editors(14),
			Items: []map[string]any{
				{"data": map[string]any{"content": "<p>API key for the staging gateway: do not share</p>"}},
				{"data": map[string]any{"content": "Launch day timeline"}},
			},
		},
		{
			Raw: map[string]any{
				"id":         "board-roadmap",
				"name":       "2026 Roadmap (shared)",
				"modifiedAt": now.Add(-21 * day).Format(time.RFC3339),
				"owner":      map[string]any{"name": "Priya N"},
				"team":       map[string]any{"name": "Product"},
				"sharingPolicy": map[string]any{
					"access":               "public",
					"anonymousAccessLevel": "view",
				},
			},
			Members: editors(4),
			Items: []map[string]any{
				{"data": map[string]any{"content": "H1 themes"}},
			},
		},
		{
			Raw: map[string]any{
				"id":         "board-2023-retro",
				"name":       "2023 Retro Archive",
				"modifiedAt": now.Add(-400 * day).Format(time.RFC3339),
				"owner":      map[string]any{"email": "sam@example.com"},
				"team":       map[string]any{"name": "Engineering"},
				"sharingPolicy": map[string]any{
					"access": "team",
				},
			},
			Members: editors(2),
		},
		{
			Raw: map[string]any{
				"id":         "board-onboarding",
				"name":       "Onboarding Map",
				"modifiedAt": now.Add(-10 * day).Format(time.RFC3339),
				"owner":      map[string]any{"email": "ops@example.com"},
				"team":       map[string]any{"name": "People"},
				"sharingPolicy": map[string]any{
					"access": "private",
				},
			},
			Members: editors(13),
			Items: []map[string]any{
				{"data": map[string]any{"content": "Week one buddies"}},
			},
		},
		{
			Raw: map[string]any{
				"id":         "board-design-crit",
				"name":       "Design Crit",
				"modifiedAt": now.Add(-1 * day).Format(time.RFC3339),
				"owner":      map[string]any{"name": "Alex R"},
				"team":       map[string]any{"name": "Design"},
				"sharingPolicy": map[string]any{
					"access": "private",
				},
			},
			Members: editors(3),
		},
	}
}

func editors(n int) []map[string]any {
	members := make([]map[string]any, 0, n+2)
	for i := 0; i < n; i++ {
		members = append(members, map[string]any{"role": "editor"})
	}
	members = append(members,
		map[string]any{"role": "viewer"},
		map[string]any{"role": "commenter"},
	)
	return members
}
