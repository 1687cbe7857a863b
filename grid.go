package memgrid

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ColumnType tags a column for display formatting only
type ColumnType string

const (
	TypeText       ColumnType = "text"
	TypeCurrency   ColumnType = "currency"
	TypePercentage ColumnType = "percentage"
	TypeStatus     ColumnType = "status"
	TypeDate       ColumnType = "date"
)

// SortDirection is either asc or desc
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// IDField is the record field that carries row identity
const IDField = "id"

// DefaultPageSize is used when a grid is built without an explicit page size
const DefaultPageSize = 10

var (
	ErrMissingID       = errors.New("record has no id")
	ErrDuplicateID     = errors.New("duplicate record id")
	ErrDuplicateColumn = errors.New("duplicate column key")
)

// Record is one flat row of domain data
type Record map[string]interface{}

// ID returns the record identity in its normalized string form.
// ok is false when the record has no usable id.
func (r Record) ID() (string, bool) {
	v, exists := r[IDField]
	if !exists || v == nil {
		return "", false
	}
	return Stringify(v), true
}

// Column defines one table column
type Column struct {
	Key      string     `json:"key" yaml:"key"`
	Label    string     `json:"label" yaml:"label"`
	Sortable bool       `json:"sortable" yaml:"sortable"`
	Type     ColumnType `json:"type,omitempty" yaml:"type,omitempty"`
}

// ViewState is the mutable search/sort/page/selection state of one grid
type ViewState struct {
	Search        string            `json:"search"`
	SortKey       string            `json:"sort_key,omitempty"`
	SortDirection SortDirection     `json:"sort_direction"`
	CurrentPage   int               `json:"current_page"`
	PageSize      int               `json:"page_size"`
	Filters       map[string]string `json:"filters,omitempty"`
	Selected      []string          `json:"selected"`
}

// PageInfo describes the current page of the filtered set
type PageInfo struct {
	CurrentPage   int `json:"current_page"`
	PageSize      int `json:"page_size"`
	TotalPages    int `json:"total_pages"`
	FilteredCount int `json:"filtered_count"`
	RangeStart    int `json:"range_start"`
	RangeEnd      int `json:"range_end"`
}

// SelectionInfo drives the select-all checkbox of the presentation layer
type SelectionInfo struct {
	Count         int  `json:"count"`
	AllSelected   bool `json:"all_selected"`
	Indeterminate bool `json:"indeterminate"`
}

// View is the rendered result handed to the presentation layer
type View struct {
	Rows      []Record      `json:"rows"`
	Columns   []Column      `json:"columns"`
	Page      PageInfo      `json:"page"`
	Selection SelectionInfo `json:"selection"`
	State     ViewState     `json:"state"`
}

// Stringify converts a field value to the string form used for search,
// facet filters and record identity.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func cloneRecord(r Record) Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
