package memgrid

import (
	"testing"
	"time"
)

func ids(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r.ID()
	}
	return out
}

func equalIDs(t *testing.T, got []Record, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("Expected ids %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("Expected ids %v, got %v", want, g)
		}
	}
}

func TestSearch(t *testing.T) {
	records := []Record{
		{"id": 1, "email": "Sarah.Johnson@company.com", "active": true},
		{"id": 2, "email": "michael@company.com", "mrr": 2500.5},
		{"id": 3, "email": "\u00e9mile@company.com"},
	}

	// Test case 1: case-insensitive substring on strings
	equalIDs(t, Search(records, "JOHNSON"), "1")

	// Test case 2: non-string values are coerced
	equalIDs(t, Search(records, "2500.5"), "2")
	equalIDs(t, Search(records, "true"), "1")

	// Test case 3: empty query keeps everything
	equalIDs(t, Search(records, ""), "1", "2", "3")

	// Test case 4: decomposed input matches composed data
	equalIDs(t, Search(records, "E\u0301MILE"), "3")

	// Test case 5: missing values render empty, not "null"
	withNil := append(records, Record{"id": 4, "email": nil})
	equalIDs(t, Search(withNil, "null"))
}

func TestSortRecords_Numeric(t *testing.T) {
	records := []Record{
		{"id": "a", "v": 10},
		{"id": "b", "v": 9.5},
		{"id": "c", "v": int64(100)},
	}
	equalIDs(t, SortRecords(records, "v", Asc), "b", "a", "c")
	equalIDs(t, SortRecords(records, "v", Desc), "c", "a", "b")

	// input untouched
	equalIDs(t, records, "a", "b", "c")
}

func TestSortRecords_Stable(t *testing.T) {
	records := []Record{
		{"id": 1, "plan": "Pro"},
		{"id": 2, "plan": "Enterprise"},
		{"id": 3, "plan": "Pro"},
		{"id": 4, "plan": "Enterprise"},
	}
	equalIDs(t, SortRecords(records, "plan", Asc), "2", "4", "1", "3")
	equalIDs(t, SortRecords(records, "plan", Desc), "1", "3", "2", "4")
}

func TestSortRecords_Nulls(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := []Record{
		{"id": 1, "lastLogin": now},
		{"id": 2, "lastLogin": nil},
		{"id": 3, "lastLogin": now.Add(-time.Hour)},
		{"id": 4},
	}
	equalIDs(t, SortRecords(records, "lastLogin", Asc), "2", "4", "3", "1")
	equalIDs(t, SortRecords(records, "lastLogin", Desc), "1", "3", "2", "4")
}

func TestSortRecords_MixedKinds(t *testing.T) {
	records := []Record{
		{"id": 1, "v": "abc"},
		{"id": 2, "v": 5},
		{"id": 3, "v": false},
		{"id": 4, "v": nil},
	}
	equalIDs(t, SortRecords(records, "v", Asc), "4", "3", "2", "1")
}

func TestSortRecords_NoKey(t *testing.T) {
	records := []Record{{"id": 2}, {"id": 1}}
	equalIDs(t, SortRecords(records, "", Asc), "2", "1")
}

func TestPaginate(t *testing.T) {
	records := []Record{{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}}

	equalIDs(t, Paginate(records, 1, 2), "1", "2")
	equalIDs(t, Paginate(records, 3, 2), "5")
	equalIDs(t, Paginate(records, 4, 2))
	equalIDs(t, Paginate(records, 0, 2))
	equalIDs(t, Paginate(records, 1, 0))
}

func TestComputePageInfo(t *testing.T) {
	cases := []struct {
		page, size, count int
		want              PageInfo
	}{
		{1, 10, 0, PageInfo{CurrentPage: 1, PageSize: 10}},
		{1, 10, 5, PageInfo{CurrentPage: 1, PageSize: 10, TotalPages: 1, FilteredCount: 5, RangeStart: 1, RangeEnd: 5}},
		{2, 2, 3, PageInfo{CurrentPage: 2, PageSize: 2, TotalPages: 2, FilteredCount: 3, RangeStart: 3, RangeEnd: 3}},
		{3, 25, 60, PageInfo{CurrentPage: 3, PageSize: 25, TotalPages: 3, FilteredCount: 60, RangeStart: 51, RangeEnd: 60}},
		{9, 2, 3, PageInfo{CurrentPage: 9, PageSize: 2, TotalPages: 2, FilteredCount: 3}},
	}
	for _, c := range cases {
		got := ComputePageInfo(c.page, c.size, c.count)
		if got != c.want {
			t.Errorf("ComputePageInfo(%d, %d, %d): expected %+v, got %+v", c.page, c.size, c.count, c.want, got)
		}
	}
}

func TestStringify(t *testing.T) {
	ts := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{100, "100"},
		{float64(100), "100"},
		{2500.5, "2500.5"},
		{true, "true"},
		{[]byte("bytes"), "bytes"},
		{ts, "2024-01-15T00:00:00Z"},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Errorf("Stringify(%#v): expected %q, got %q", c.in, c.want, got)
		}
	}
}
