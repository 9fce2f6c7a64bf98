package picker

import "strings"

// Criteria is the composite input of the filter pipeline. All filters
// are conjunctive and applied in a fixed order: hidden, mime, query,
// predicate.
type Criteria struct {
	// ShowHidden keeps entries whose basename starts with ".".
	ShowHidden bool

	// MimeFilter is an allow-list of mime patterns. A pattern matches
	// exactly, or by prefix when it ends in "/*" (e.g. "image/*").
	// Folders are always exempt so navigation remains possible.
	MimeFilter []string

	// Query is a case-insensitive literal substring matched against
	// the basename. Never interpreted as a pattern.
	Query string

	// Predicate is an optional caller-supplied filter.
	Predicate func(Entry) bool
}

// ApplyFilters runs the filter pipeline over a listing. Pure and
// deterministic: the input slice is never modified and applying the
// result again yields the same entries.
func ApplyFilters(entries []Entry, c Criteria) []Entry {
	out := make([]Entry, 0, len(entries))
	query := strings.ToLower(c.Query)

	for _, e := range entries {
		if !c.ShowHidden && strings.HasPrefix(e.Name, ".") {
			continue
		}
		if len(c.MimeFilter) > 0 && !e.IsDir && !mimeMatches(e.MimeType, c.MimeFilter) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		if c.Predicate != nil && !c.Predicate(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// mimeMatches reports whether mime matches any allow-list pattern.
func mimeMatches(mime string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if strings.HasPrefix(mime, prefix+"/") {
				return true
			}
			continue
		}
		if mime == p {
			return true
		}
	}
	return false
}
