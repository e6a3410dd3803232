// Package normalizer maps loosely-typed provider board records into canonical
// board states.
//
// Provider payloads are only partially documented and vary across plans and API
// revisions, so every extractor here is defensive: an unexpected shape resolves
// to the zero value or a nil tri-state flag, never an error. Unknown must stay
// distinguishable from false — the scorer treats nil as "not flagged", not safe.
package normalizer

import (
	"context"
	"strings"

	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/models"
)

// accessPaths are the candidate nested locations of a sharing/permission access
// value, in precedence order. The first path holding a recognizable string wins.
var accessPaths = [][]string{
	{"sharingPolicy", "access"},
	{"policy", "sharingPolicy", "access"},
	{"permissionsPolicy", "access"},
	{"policy", "permissionsPolicy", "access"},
	{"sharingPolicy", "teamAccess"},
}

// editAccessPaths are the candidate locations of a public link's capability
// level, consulted only once public access is established.
var editAccessPaths = [][]string{
	{"sharingPolicy", "access"},
	{"sharingPolicy", "anonymousAccessLevel"},
	{"sharingPolicy", "linkAccess"},
	{"policy", "sharingPolicy", "access"},
}

var (
	publicAccessValues  = []string{"anyone", "public"}
	privateAccessValues = []string{"private", "owner", "team", "no_access"}

	editCapableValues = []string{"can_edit", "editor", "edit", "write"}
	viewOnlyValues    = []string{"view", "comment", "read"}

	editorRoleValues = []string{"can_edit", "editor", "edit"}
)

// Normalizer derives canonical board states from raw provider records.
type Normalizer struct {
	log      logger.Logger
	verifier *Verifier
}

// New creates a Normalizer. The verifier is optional; when nil, no live
// verification requests are issued and only document-based signals are used.
func New(log logger.Logger, verifier *Verifier) *Normalizer {
	return &Normalizer{log: log, verifier: verifier}
}

// Normalize builds a BoardState from one raw board record plus optional member
// and item records. It never fails: any unexpected shape degrades to an absent
// signal. Given identical input it returns an identical state.
func (n *Normalizer) Normalize(ctx context.Context, raw map[string]any, members, items []map[string]any) models.BoardState {
	state := n.NormalizeOffline(raw, members, items)

	if n.verifier != nil {
		n.verify(ctx, &state)
	}

	return state
}

// NormalizeOffline builds a BoardState from document signals alone, never
// issuing live verification requests. Use it for records with no live
// counterpart, such as the built-in sample boards.
func (n *Normalizer) NormalizeOffline(raw map[string]any, members, items []map[string]any) models.BoardState {
	state := models.BoardState{
		ID:         stringField(raw, "id", "unknown"),
		Name:       stringField(raw, "name", "Untitled board"),
		Owner:      ownerField(raw),
		Team:       stringAt(raw, []string{"team", "name"}),
		ModifiedAt: stringField(raw, "modifiedAt", ""),
	}

	state.PublicAccess = detectPublicAccess(raw)
	state.PublicEditAccess = detectPublicEditAccess(raw, state.PublicAccess)
	state.EditorCount = countEditors(members)
	state.ContentText = buildContentText(raw, items)

	return state
}

// verify lets a live reachability signal override document-derived access
// flags. The probe reflects ground truth for the public URL, so a clear
// verdict wins over policy inference; anything unclear changes nothing.
func (n *Normalizer) verify(ctx context.Context, state *models.BoardState) {
	verdict, err := n.verifier.Verify(ctx, state.ID)
	if err != nil {
		n.log.Debug("Live verification unavailable, keeping document signals",
			logger.String("board_id", state.ID),
			logger.Error(err),
		)
		return
	}
	if verdict == nil {
		return
	}

	state.PublicAccess = verdict
	if !*verdict {
		// A board that is not publicly viewable cannot be publicly editable.
		state.PublicEditAccess = boolPtr(false)
	}
}

// detectPublicAccess resolves the tri-state public-read flag: an explicit
// boolean wins, then the ranked access paths, else unknown.
func detectPublicAccess(raw map[string]any) *bool {
	if explicit, ok := raw["publicAccess"].(bool); ok {
		return boolPtr(explicit)
	}

	for _, path := range accessPaths {
		value := strings.ToLower(stringAt(raw, path))
		if value == "" {
			continue
		}
		if matchesAny(value, publicAccessValues) {
			return boolPtr(true)
		}
		if matchesAny(value, privateAccessValues) {
			return boolPtr(false)
		}
	}
	return nil
}

// detectPublicEditAccess resolves the tri-state public-edit flag. It can only
// be true when the board is publicly readable in the first place.
func detectPublicEditAccess(raw map[string]any, publicAccess *bool) *bool {
	if publicAccess == nil || !*publicAccess {
		if publicAccess != nil {
			return boolPtr(false)
		}
		return nil
	}

	if explicit, ok := raw["publicEditAccess"].(bool); ok {
		return boolPtr(explicit)
	}

	for _, path := range editAccessPaths {
		value := strings.ToLower(stringAt(raw, path))
		if value == "" {
			continue
		}
		if containsAny(value, editCapableValues) {
			return boolPtr(true)
		}
		if containsAny(value, viewOnlyValues) {
			return boolPtr(false)
		}
	}
	return nil
}

// countEditors counts member records carrying an editor-like role. A nil
// members list means the data was unavailable and yields nil, because
// "unknown" must not be scored as "zero editors".
func countEditors(members []map[string]any) *int {
	if members == nil {
		return nil
	}

	count := 0
	for _, member := range members {
		role := memberRole(member)
		if role == "" {
			continue
		}
		if containsAny(strings.ToLower(role), editorRoleValues) {
			count++
		}
	}
	return &count
}

// memberRole finds the first role-like string on a member record.
func memberRole(member map[string]any) string {
	for _, key := range []string{"role", "access", "permission"} {
		if value, ok := member[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

// buildContentText concatenates the searchable text extracted from the board
// record and its item listings into one lowercase blob.
func buildContentText(raw map[string]any, items []map[string]any) string {
	fragments := make([]string, 0, len(items)+2)

	if name, ok := raw["name"].(string); ok {
		fragments = append(fragments, stripHTML(name))
	}
	if description, ok := raw["description"].(string); ok {
		fragments = append(fragments, stripHTML(description))
	}
	for _, item := range items {
		if text := ExtractText(item); text != "" {
			fragments = append(fragments, text)
		}
	}

	return strings.ToLower(collapseWhitespace(strings.Join(fragments, " ")))
}

func ownerField(raw map[string]any) string {
	if email := stringAt(raw, []string{"owner", "email"}); email != "" {
		return email
	}
	return stringAt(raw, []string{"owner", "name"})
}

// stringField reads a top-level string field with a fallback.
func stringField(raw map[string]any, key, fallback string) string {
	if value, ok := raw[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

// stringAt walks a nested path of maps and returns the string at the leaf,
// or "" when any step is missing or the wrong shape.
func stringAt(raw map[string]any, path []string) string {
	current := any(raw)
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current, ok = node[key]
		if !ok {
			return ""
		}
	}
	value, _ := current.(string)
	return value
}

func matchesAny(value string, candidates []string) bool {
	for _, candidate := range candidates {
		if value == candidate {
			return true
		}
	}
	return false
}

func containsAny(value string, candidates []string) bool {
	for _, candidate := range candidates {
		if strings.Contains(value, candidate) {
			return true
		}
	}
	return false
}

func boolPtr(v bool) *bool {
	return &v
}
