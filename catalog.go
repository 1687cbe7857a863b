package memgrid

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.schema.json
var catalogSchema []byte

// Catalog describes a grid: its columns and the defaults applied when a
// view is opened.
type Catalog struct {
	Version  string         `json:"version" yaml:"version"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty"`
	Datagrid DatagridConfig `json:"datagrid,omitempty" yaml:"datagrid,omitempty"`
	Objects  []ObjectDef    `json:"objects" yaml:"objects"`
}

type DatagridConfig struct {
	Defaults DatagridDefaults     `json:"defaults" yaml:"defaults"`
	Filters  map[string]FilterDef `json:"filters,omitempty" yaml:"filters,omitempty"`
}

type DatagridDefaults struct {
	PageSize      int               `json:"page_size" yaml:"page_size"`
	SortColumn    string            `json:"sort_column" yaml:"sort_column"`
	SortDirection string            `json:"sort_direction" yaml:"sort_direction"`
	Search        string            `json:"search" yaml:"search"`
	Filters       map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// FilterDef maps a facet name onto a column
type FilterDef struct {
	Column string `json:"column" yaml:"column"`
}

type ObjectDef struct {
	Name    string      `json:"name" yaml:"name"`
	Columns []ColumnDef `json:"columns" yaml:"columns"`
}

type ColumnDef struct {
	Name     string            `json:"name" yaml:"name"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Labels   map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Sortable *bool             `json:"sortable,omitempty" yaml:"sortable,omitempty"`
}

// LoadCatalog reads a JSON or YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data, filepath.Ext(path))
}

// ParseCatalog decodes catalog bytes. ext selects YAML for ".yaml"/".yml",
// JSON otherwise. JSON catalogs are validated against the catalog schema.
func ParseCatalog(data []byte, ext string) (*Catalog, error) {
	var cat Catalog
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	default:
		if err := ValidateCatalog(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &cat); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	}

	slog.Debug("catalog loaded", "version", cat.Version, "objects", len(cat.Objects))
	if len(cat.Objects) == 0 {
		return nil, fmt.Errorf("no objects found in catalog")
	}
	return &cat, nil
}

// ValidateCatalog checks JSON catalog bytes against the embedded schema.
func ValidateCatalog(data []byte) error {
	return ValidateCatalogWith(gojsonschema.NewBytesLoader(catalogSchema), data)
}

// ValidateCatalogWith checks JSON catalog bytes against schema.
func ValidateCatalogWith(schema gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
}

// Columns builds the column schema of the first catalog object, picking
// labels for lang with an English fallback.
func (c *Catalog) Columns(lang string) []Column {
	if len(c.Objects) == 0 {
		return nil
	}
	obj := c.Objects[0]
	cols := make([]Column, 0, len(obj.Columns))
	for _, def := range obj.Columns {
		label := def.Name
		if l, ok := def.Labels[lang]; ok {
			label = l
		} else if l, ok := def.Labels["en"]; ok {
			label = l
		}
		sortable := true
		if def.Sortable != nil {
			sortable = *def.Sortable
		}
		typ := ColumnType(strings.ToLower(def.Type))
		if typ == "" {
			typ = TypeText
		}
		cols = append(cols, Column{
			Key:      def.Name,
			Label:    label,
			Sortable: sortable,
			Type:     typ,
		})
	}
	return cols
}

// NewFromCatalog builds an engine over records using the catalog columns
// and applies the catalog defaults.
func NewFromCatalog(records []Record, cat *Catalog, lang string) (*Engine, error) {
	e, err := New(records, cat.Columns(lang))
	if err != nil {
		return nil, err
	}

	d := cat.Datagrid.Defaults
	if d.PageSize > 0 {
		e.SetPageSize(d.PageSize)
	}
	if d.SortColumn != "" {
		dir := Asc
		if strings.EqualFold(d.SortDirection, "desc") {
			dir = Desc
		}
		e.SetSortDirection(d.SortColumn, dir)
	}
	for name, value := range d.Filters {
		e.SetFilter(cat.FilterColumn(name), value)
	}
	if d.Search != "" {
		e.SetSearch(d.Search)
	}
	return e, nil
}

// FilterColumn resolves a facet name to its column key.
func (c *Catalog) FilterColumn(name string) string {
	if def, ok := c.Datagrid.Filters[name]; ok && def.Column != "" {
		return def.Column
	}
	return name
}
