package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/dsl"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Definition is a table declared in a YAML file.
type Definition struct {
	Name         string          `mapstructure:"name" json:"name"`
	Title        string          `mapstructure:"title" json:"title,omitempty"`
	Description  string          `mapstructure:"description" json:"description,omitempty"`
	RowID        string          `mapstructure:"rowId" json:"rowId,omitempty"`
	Fallback     any             `mapstructure:"fallback" json:"fallback,omitempty"`
	Columns      []ColumnSpec    `mapstructure:"columns" json:"columns"`
	State        map[string]any  `mapstructure:"state" json:"state,omitempty"`
	InitialState map[string]any  `mapstructure:"initialState" json:"initialState,omitempty"`
	Data         []domain.Record `mapstructure:"data" json:"data"`
}

// ColumnSpec declares one column. ID doubles as the accessor key unless
// Accessor is set.
type ColumnSpec struct {
	ID       string `mapstructure:"id" json:"id"`
	Accessor string `mapstructure:"accessor" json:"accessor,omitempty"`
	Header   string `mapstructure:"header" json:"header,omitempty"`
	Footer   string `mapstructure:"footer" json:"footer,omitempty"`
	Format   string `mapstructure:"format" json:"format,omitempty"`
	Hidden   bool   `mapstructure:"hidden" json:"hidden,omitempty"`
}

// Load reads and parses the definition at path. A definition without a name
// is named after the file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definition: %w", err)
	}

	def, err := Parse(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a YAML definition. defaultName is used when the document has no name.
func Parse(data []byte, defaultName string) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %v: %w", err, domain.ErrInvalidConfig)
	}

	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %v: %w", err, domain.ErrInvalidConfig)
	}

	if def.Name == "" {
		def.Name = defaultName
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition can produce a table.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("table has no name: %w", domain.ErrInvalidConfig)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("table %q has no columns: %w", d.Name, domain.ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(d.Columns))
	for i, c := range d.Columns {
		if c.ID == "" {
			return fmt.Errorf("table %q column %d has no id: %w", d.Name, i, domain.ErrInvalidConfig)
		}
		if seen[c.ID] {
			return fmt.Errorf("table %q declares column %q twice: %w", d.Name, c.ID, domain.ErrInvalidConfig)
		}
		seen[c.ID] = true
	}
	return nil
}

// Options converts the definition into engine options for records.
// Hidden columns start hidden through the column visibility state.
func (d *Definition) Options() domain.Options[domain.Record] {
	opts := domain.Options[domain.Record]{
		Data:                d.Data,
		Columns:             make([]domain.ColumnDef[domain.Record], len(d.Columns)),
		RenderFallbackValue: d.Fallback,
		Meta:                map[string]any{"name": d.Name, "title": d.Title, "description": d.Description},
	}
	if opts.Data == nil {
		opts.Data = []domain.Record{}
	}
	if d.State != nil {
		opts.State = domain.State(d.State)
	}

	var hidden map[string]bool
	for i, spec := range d.Columns {
		opts.Columns[i] = spec.columnDef()
		if spec.Hidden {
			if hidden == nil {
				hidden = map[string]bool{}
			}
			hidden[spec.ID] = false
		}
	}

	initial := domain.State(d.InitialState)
	if hidden != nil {
		initial = initial.With(domain.KeyColumnVisibility, hidden)
	}
	if initial != nil {
		opts.InitialState = initial
	}

	if d.RowID != "" {
		key := d.RowID
		opts.GetRowID = func(row domain.Record, index int) string {
			if v, ok := row[key]; ok && v != nil {
				return fmt.Sprint(v)
			}
			return fmt.Sprint(index)
		}
	}
	return opts
}

func (c ColumnSpec) columnDef() domain.ColumnDef[domain.Record] {
	def := domain.ColumnDef[domain.Record]{
		ID:          c.ID,
		AccessorKey: c.ID,
	}
	if c.Accessor != "" {
		def.AccessorKey = c.Accessor
	}
	if c.Header != "" {
		def.Header = c.Header
	}
	if c.Footer != "" {
		def.Footer = c.Footer
	}
	if c.Format != "" {
		def.Cell = dsl.Format[domain.Record](c.Format)
	}
	return def
}
