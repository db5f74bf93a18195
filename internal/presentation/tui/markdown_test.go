package tui_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/tabula/internal/presentation/tui"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Golden(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		headers []string
		rows    [][]string
	}{
		{
			name:    "people",
			title:   "People",
			headers: []string{"Name", "Field"},
			rows: [][]string{
				{"Ada Lovelace", "Mathematics"},
				{"Grace Hopper", "Compilers | Languages"},
				{"Alan Turing"},
			},
		},
		{
			name:    "multiline",
			headers: []string{"Note"},
			rows:    [][]string{{"first\nsecond"}},
		},
		{
			name:  "no_columns",
			title: "Empty",
		},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(tui.Markdown(tt.title, tt.headers, tt.rows)))
		})
	}
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer("notty", 80)
	require.NoError(t, err)

	out, err := render(tui.Markdown("People", []string{"Name"}, [][]string{{"Ada"}}))
	require.NoError(t, err)
	assert.Contains(t, out, "People")
	assert.Contains(t, out, "Ada")
}

func TestPlain(t *testing.T) {
	out, err := tui.Plain("| a |\n")
	require.NoError(t, err)
	assert.Equal(t, "| a |\n", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_.__/")
}

func TestWidth_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsTerminal(f))
	assert.Equal(t, tui.DefaultWidth, tui.Width(f))
}
