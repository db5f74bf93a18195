package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	def, err := file.Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "people", def.Name)
	assert.Equal(t, "People", def.Title)
	require.Len(t, def.Columns, 4)
	assert.Equal(t, "area", def.Columns[2].Accessor)
	assert.True(t, def.Columns[3].Hidden)
	assert.Len(t, def.Data, 3)
}

func TestDefinition_Options(t *testing.T) {
	def, err := file.Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	table, err := tabula.New(tabula.Static(def.Options()))
	require.NoError(t, err)
	engine := store.Get(table)

	state := engine.State()
	assert.Equal(t, []domain.ColumnSort{{ID: "born"}}, state.Sorting())
	assert.Equal(t, domain.PaginationState{PageIndex: 0, PageSize: 20}, state.Pagination())
	assert.Equal(t, map[string]bool{"email": false}, state.ColumnVisibility())

	headers, rows := engine.Grid()
	assert.Equal(t, []string{"Name", "Born", "Field"}, headers)
	assert.Equal(t, [][]string{
		{"Ada Lovelace", "b. 1815", "Mathematics"},
		{"Grace Hopper", "b. 1906", "Compilers"},
		{"Alan Turing", "-", "Computability"},
	}, rows)

	ids := []string{}
	for _, r := range engine.Rows() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"ada", "grace", "alan"}, ids)
	assert.Equal(t, "People", engine.Options().Meta["title"])
}

func TestParse_DefaultName(t *testing.T) {
	def, err := file.Parse([]byte("columns: [{id: a}]"), "fallback-name")
	require.NoError(t, err)
	assert.Equal(t, "fallback-name", def.Name)
	assert.NotNil(t, def.Options().Data, "a table without data still has an empty data set")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "columns: [unterminated"},
		{"no columns", "name: empty"},
		{"column without id", "name: t\ncolumns: [{header: X}]"},
		{"duplicate column", "name: t\ncolumns: [{id: a}, {id: a}]"},
		{"unknown key", "name: t\ncolumns: [{id: a}]\ncolour: red"},
		{"wrong type", "name: t\ncolumns: 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := file.Parse([]byte(tt.yaml), "")
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := file.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
