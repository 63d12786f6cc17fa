package catalog

// SortMode selects the catalog ordering. The client cycles through the
// modes with a single control, so Next encodes the cycle order.
type SortMode string

const (
	SortNameAsc  SortMode = "name_asc"
	SortNameDesc SortMode = "name_desc"
	SortRecent   SortMode = "recent"
)

// ParseSortMode maps a request parameter to a sort mode. Unknown or empty
// values fall back to the default ascending name sort.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortNameDesc:
		return SortNameDesc
	case SortRecent:
		return SortRecent
	default:
		return SortNameAsc
	}
}

// Next returns the mode that follows in the cycle:
// name_asc -> name_desc -> recent -> name_asc.
func (m SortMode) Next() SortMode {
	switch m {
	case SortNameAsc:
		return SortNameDesc
	case SortNameDesc:
		return SortRecent
	default:
		return SortNameAsc
	}
}
