package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      State
		new      State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  State{KeySorting: []ColumnSort{{ID: "name"}}},
			wantDiff: &StateDiff{
				Table:   "people",
				Changed: map[string]any{KeySorting: []ColumnSort{{ID: "name"}}},
			},
		},
		{
			name:     "No Changes",
			old:      State{KeyGlobalFilter: "ada"},
			new:      State{KeyGlobalFilter: "ada"},
			wantDiff: nil,
		},
		{
			name: "Added & Modified",
			old:  State{KeyGlobalFilter: "ada", KeyPagination: PaginationState{PageIndex: 0, PageSize: 10}},
			new: State{
				KeyGlobalFilter: "ada",
				KeyPagination:   PaginationState{PageIndex: 1, PageSize: 10},
				KeyGrouping:     []string{"team"},
			},
			wantDiff: &StateDiff{
				Table: "people",
				Changed: map[string]any{
					KeyPagination: PaginationState{PageIndex: 1, PageSize: 10},
					KeyGrouping:   []string{"team"},
				},
			},
		},
		{
			name: "Deletion",
			old:  State{"a": 1, "b": 2},
			new:  State{"a": 1},
			wantDiff: &StateDiff{
				Table:   "people",
				Changed: map[string]any{"b": nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff("people", tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Diff() = nil, want %v", tt.wantDiff)
			}
			if got.Table != tt.wantDiff.Table {
				t.Errorf("Diff().Table = %v, want %v", got.Table, tt.wantDiff.Table)
			}
			if !reflect.DeepEqual(got.Changed, tt.wantDiff.Changed) {
				t.Errorf("Diff().Changed = %v, want %v", got.Changed, tt.wantDiff.Changed)
			}
		})
	}
}

func TestDiffTouches(t *testing.T) {
	d := Diff("t", State{"a": 1}, State{"a": 2, "b": 1})
	if !d.Touches() {
		t.Error("empty key list should match")
	}
	if !d.Touches("x", "b") {
		t.Error("expected diff to touch b")
	}
	if d.Touches("x") {
		t.Error("diff should not touch x")
	}
	var none *StateDiff
	if none.Touches() || !none.IsEmpty() {
		t.Error("nil diff touches nothing and is empty")
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Deletions as Null", func(t *testing.T) {
		diff := Diff("t", State{"a": 1, "b": 2}, State{"a": 1})
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"b":null`) {
			t.Errorf("JSON should contain 'b':null for deletion, got: %s", string(bytes))
		}
	})
}
