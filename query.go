package memgrid

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Search returns the records where at least one field value, in string
// form, contains query case-insensitively. An empty query matches all.
func Search(records []Record, query string) []Record {
	if query == "" {
		return records
	}
	needle := fold(query)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		for _, v := range rec {
			if strings.Contains(fold(Stringify(v)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// MatchFilters keeps records whose stringified field equals the facet value
// for every facet in filters.
func MatchFilters(records []Record, filters map[string]string) []Record {
	if len(filters) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		ok := true
		for key, want := range filters {
			if Stringify(rec[key]) != want {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}

// SortRecords returns a stably sorted copy of records ordered by key.
// An empty key returns the input order.
func SortRecords(records []Record, key string, dir SortDirection) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if key == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(out[i][key], out[j][key])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Paginate returns the 1-based page of records. Pages outside the set
// yield an empty slice.
func Paginate(records []Record, page, pageSize int) []Record {
	if page < 1 || pageSize < 1 {
		return []Record{}
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return []Record{}
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// ComputePageInfo builds the paging summary for filteredCount records.
func ComputePageInfo(page, pageSize, filteredCount int) PageInfo {
	info := PageInfo{
		CurrentPage:   page,
		PageSize:      pageSize,
		FilteredCount: filteredCount,
	}
	if pageSize < 1 || filteredCount == 0 {
		return info
	}
	info.TotalPages = (filteredCount + pageSize - 1) / pageSize
	start := (page-1)*pageSize + 1
	if page < 1 || start > filteredCount {
		return info
	}
	info.RangeStart = start
	info.RangeEnd = min(page*pageSize, filteredCount)
	return info
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// kind ranks mixed-type values: nil < bool < number < time < string
type kind int

const (
	kindNil kind = iota
	kindBool
	kindNumber
	kindTime
	kindString
)

func classify(v interface{}) (kind, float64) {
	switch val := v.(type) {
	case nil:
		return kindNil, 0
	case bool:
		if val {
			return kindBool, 1
		}
		return kindBool, 0
	case int:
		return kindNumber, float64(val)
	case int8:
		return kindNumber, float64(val)
	case int16:
		return kindNumber, float64(val)
	case int32:
		return kindNumber, float64(val)
	case int64:
		return kindNumber, float64(val)
	case uint:
		return kindNumber, float64(val)
	case uint8:
		return kindNumber, float64(val)
	case uint16:
		return kindNumber, float64(val)
	case uint32:
		return kindNumber, float64(val)
	case uint64:
		return kindNumber, float64(val)
	case float32:
		return kindNumber, float64(val)
	case float64:
		return kindNumber, val
	case time.Time:
		return kindTime, 0
	case *time.Time:
		if val == nil {
			return kindNil, 0
		}
		return kindTime, 0
	default:
		return kindString, 0
	}
}

// compareValues orders two field values, returning -1, 0 or 1.
func compareValues(a, b interface{}) int {
	ka, na := classify(a)
	kb, nb := classify(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	switch ka {
	case kindNil:
		return 0
	case kindBool, kindNumber:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case kindTime:
		return asTime(a).Compare(asTime(b))
	default:
		return strings.Compare(Stringify(a), Stringify(b))
	}
}

func asTime(v interface{}) time.Time {
	if t, ok := v.(*time.Time); ok {
		return *t
	}
	return v.(time.Time)
}
