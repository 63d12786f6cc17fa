// Package catalog builds the browsable movement catalog: alias expansion,
// tag and query filtering, and the sort modes the client cycles through.
package catalog

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/movelogapp/movelog-server/internal/domain"
)

// Entry is one catalog row. A movement with k alternate names expands into
// k+1 entries, one per display name, all sharing the movement's id, tags,
// and video. Alias entries carry AliasOf, the movement's primary name.
type Entry struct {
	MovementID string    `json:"movementId"`
	Name       string    `json:"name"`
	AliasOf    string    `json:"aliasOf,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	HasVideo   bool      `json:"hasVideo"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Expand turns movements into catalog entries, one per display name.
func Expand(movements []*domain.Movement) []Entry {
	entries := make([]Entry, 0, len(movements))
	for _, m := range movements {
		entries = append(entries, Entry{
			MovementID: m.ID,
			Name:       m.Name,
			Tags:       m.Tags,
			HasVideo:   m.Video.Object != "",
			CreatedAt:  m.CreatedAt,
		})
		for _, alt := range m.AltNames {
			entries = append(entries, Entry{
				MovementID: m.ID,
				Name:       alt,
				AliasOf:    m.Name,
				Tags:       m.Tags,
				HasVideo:   m.Video.Object != "",
				CreatedAt:  m.CreatedAt,
			})
		}
	}
	return entries
}

// Filter keeps entries matching both constraints. An empty tag or query
// means no constraint on that axis. The tag must appear exactly in the
// entry's tag list; the query is a case-insensitive substring match against
// the entry's own display name only, so an alias never matches through its
// primary name.
func Filter(entries []Entry, tag, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if tag == "" && query == "" {
		return entries
	}

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if tag != "" && !slices.Contains(e.Tags, tag) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Name), query) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// Sort orders entries in place according to the sort mode. Name comparisons
// are locale-aware and case-insensitive.
func Sort(entries []Entry, mode SortMode) {
	c := newCollator()

	switch mode {
	case SortNameDesc:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return -c.CompareString(a.Name, b.Name)
		})
	case SortRecent:
		// Newest first, ties broken by name ascending.
		slices.SortStableFunc(entries, func(a, b Entry) int {
			if cmp := b.CreatedAt.Compare(a.CreatedAt); cmp != 0 {
				return cmp
			}
			return c.CompareString(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return c.CompareString(a.Name, b.Name)
		})
	}
}

// SortNames orders plain name lists (tag filter lists, rosters) ascending,
// case-insensitive, locale-aware. Empty strings sort first.
func SortNames(names []string) {
	c := newCollator()
	slices.SortStableFunc(names, c.CompareString)
}

// NameComparer returns a comparison function for locale-aware,
// case-insensitive name ordering. The returned function holds a private
// collator and is not safe for concurrent use.
func NameComparer() func(a, b string) int {
	c := newCollator()
	return c.CompareString
}

// newCollator returns a fresh collator. Collators carry internal buffers
// and are not safe for concurrent use, so every sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
