package domain

import (
	"sort"

	"github.com/mitchellh/mapstructure"
)

// State is the mutable table state, keyed by feature.
// Values are either the typed structs below or their decoded JSON form.
type State map[string]any

// ColumnSort is one entry of the sorting state.
type ColumnSort struct {
	ID   string `json:"id" mapstructure:"id"`
	Desc bool   `json:"desc" mapstructure:"desc"`
}

// ColumnFilter is one entry of the column filters state.
type ColumnFilter struct {
	ID    string `json:"id" mapstructure:"id"`
	Value any    `json:"value" mapstructure:"value"`
}

// PaginationState locates the current page.
type PaginationState struct {
	PageIndex int `json:"pageIndex" mapstructure:"pageIndex"`
	PageSize  int `json:"pageSize" mapstructure:"pageSize"`
}

// Clone returns a shallow copy. A nil State clones to an empty one.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the state keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of s with key set to value.
func (s State) With(key string, value any) State {
	out := s.Clone()
	out[key] = value
	return out
}

// MergeState starts from local and overrides it with every key present in
// external. The merge is one level deep: a nested value under a shared key is
// replaced by the external one, never merged into the local one.
func MergeState(local, external State) State {
	out := make(State, len(local)+len(external))
	for k, v := range local {
		out[k] = v
	}
	for k, v := range external {
		out[k] = v
	}
	return out
}

// Sorting returns the sorting state, or nil when unset or undecodable.
func (s State) Sorting() []ColumnSort {
	switch v := s[KeySorting].(type) {
	case nil:
		return nil
	case []ColumnSort:
		return v
	default:
		var out []ColumnSort
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil
		}
		return out
	}
}

// ColumnFilters returns the column filters state.
func (s State) ColumnFilters() []ColumnFilter {
	switch v := s[KeyColumnFilters].(type) {
	case nil:
		return nil
	case []ColumnFilter:
		return v
	default:
		var out []ColumnFilter
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil
		}
		return out
	}
}

// Pagination returns the pagination state, defaulting the page size.
func (s State) Pagination() PaginationState {
	p := PaginationState{PageSize: DefaultPageSize}
	switch v := s[KeyPagination].(type) {
	case nil:
	case PaginationState:
		p = v
	case *PaginationState:
		if v != nil {
			p = *v
		}
	default:
		if err := mapstructure.WeakDecode(v, &p); err != nil {
			return PaginationState{PageSize: DefaultPageSize}
		}
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// ColumnVisibility returns the visibility flags by column ID.
// Columns absent from the map are visible.
func (s State) ColumnVisibility() map[string]bool {
	return s.boolMap(KeyColumnVisibility)
}

// RowSelection returns the selected row IDs.
func (s State) RowSelection() map[string]bool {
	return s.boolMap(KeyRowSelection)
}

// Grouping returns the grouped column IDs.
func (s State) Grouping() []string {
	switch v := s[KeyGrouping].(type) {
	case nil:
		return nil
	case []string:
		return v
	default:
		var out []string
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return nil
		}
		return out
	}
}

func (s State) boolMap(key string) map[string]bool {
	switch v := s[key].(type) {
	case nil:
		return map[string]bool{}
	case map[string]bool:
		return v
	default:
		out := map[string]bool{}
		if err := mapstructure.WeakDecode(v, &out); err != nil {
			return map[string]bool{}
		}
		return out
	}
}
