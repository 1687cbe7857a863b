package memgrid

import (
	"fmt"
	"strings"
)

// Engine turns records, columns and a ViewState into visible rows,
// page info and selection. It is not safe for concurrent use.
type Engine struct {
	records []Record
	index   map[string]int
	columns []Column
	colIdx  map[string]int

	state    ViewState
	selected map[string]struct{}

	filtered []Record
	sorted   []Record
	visible  []Record
}

// New builds an engine over records and columns. Records are cloned so the
// caller's maps are never mutated.
func New(records []Record, columns []Column) (*Engine, error) {
	e := &Engine{
		index:    make(map[string]int, len(records)),
		colIdx:   make(map[string]int, len(columns)),
		selected: make(map[string]struct{}),
		state: ViewState{
			SortDirection: Asc,
			CurrentPage:   1,
			PageSize:      DefaultPageSize,
			Filters:       map[string]string{},
		},
	}

	for i, c := range columns {
		if _, dup := e.colIdx[c.Key]; dup {
			return nil, fmt.Errorf("column %q: %w", c.Key, ErrDuplicateColumn)
		}
		e.colIdx[c.Key] = i
	}
	e.columns = append([]Column(nil), columns...)

	e.records = make([]Record, 0, len(records))
	for i, rec := range records {
		id, ok := rec.ID()
		if !ok {
			return nil, fmt.Errorf("record %d: %w", i, ErrMissingID)
		}
		if _, dup := e.index[id]; dup {
			return nil, fmt.Errorf("record %d (id %s): %w", i, id, ErrDuplicateID)
		}
		e.index[id] = len(e.records)
		e.records = append(e.records, cloneRecord(rec))
	}

	e.refresh()
	return e, nil
}

// Columns returns the column schema
func (e *Engine) Columns() []Column {
	return append([]Column(nil), e.columns...)
}

// Column looks up a column by key
func (e *Engine) Column(key string) (Column, bool) {
	i, ok := e.colIdx[key]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

// Len is the size of the unfiltered record set
func (e *Engine) Len() int { return len(e.records) }

// SetSearch sets the free-text query and returns to the first page.
func (e *Engine) SetSearch(query string) {
	e.state.Search = query
	e.state.CurrentPage = 1
	e.refresh()
}

// SetSort sorts by key. Repeating the current key toggles the direction,
// a new key starts ascending. Unknown or non-sortable keys are ignored.
func (e *Engine) SetSort(key string) {
	col, ok := e.Column(key)
	if !ok || !col.Sortable {
		return
	}
	if e.state.SortKey == key {
		if e.state.SortDirection == Asc {
			e.state.SortDirection = Desc
		} else {
			e.state.SortDirection = Asc
		}
	} else {
		e.state.SortKey = key
		e.state.SortDirection = Asc
	}
	e.refresh()
}

// SetSortDirection pins the sort key and direction, e.g. from catalog defaults.
func (e *Engine) SetSortDirection(key string, dir SortDirection) {
	col, ok := e.Column(key)
	if !ok || !col.Sortable {
		return
	}
	if dir != Desc {
		dir = Asc
	}
	e.state.SortKey = key
	e.state.SortDirection = dir
	e.refresh()
}

// SetPage moves to a 1-based page. Pages past the end are allowed and
// show no rows.
func (e *Engine) SetPage(page int) {
	if page < 1 {
		return
	}
	e.state.CurrentPage = page
	e.refresh()
}

// SetPageSize changes the page size and returns to the first page.
func (e *Engine) SetPageSize(n int) {
	if n < 1 {
		return
	}
	e.state.PageSize = n
	e.state.CurrentPage = 1
	e.refresh()
}

// SetFilter restricts the set to records whose key equals value.
// An empty value or "all" clears the facet.
func (e *Engine) SetFilter(key, value string) {
	if _, ok := e.colIdx[key]; !ok {
		return
	}
	if value == "" || strings.EqualFold(value, "all") {
		delete(e.state.Filters, key)
	} else {
		e.state.Filters[key] = value
	}
	e.state.CurrentPage = 1
	e.refresh()
}

// ToggleSelect adds or removes one id. Ids not in the record set are ignored.
func (e *Engine) ToggleSelect(id string, selected bool) {
	if _, ok := e.index[id]; !ok {
		return
	}
	if selected {
		e.selected[id] = struct{}{}
	} else {
		delete(e.selected, id)
	}
}

// ToggleSelectAll selects every record of the filtered set, across all
// pages, or clears the selection.
func (e *Engine) ToggleSelectAll(selected bool) {
	e.selected = make(map[string]struct{})
	if !selected {
		return
	}
	for _, rec := range e.filtered {
		id, _ := rec.ID()
		e.selected[id] = struct{}{}
	}
}

// IsSelected reports whether id is selected
func (e *Engine) IsSelected(id string) bool {
	_, ok := e.selected[id]
	return ok
}

// VisibleRows returns the current page of the sorted, filtered set.
func (e *Engine) VisibleRows() []Record {
	return append([]Record(nil), e.visible...)
}

// Filtered returns the sorted, filtered set across all pages.
func (e *Engine) Filtered() []Record {
	return append([]Record(nil), e.sorted...)
}

// PageInfo summarizes the current page.
func (e *Engine) PageInfo() PageInfo {
	return ComputePageInfo(e.state.CurrentPage, e.state.PageSize, len(e.filtered))
}

// Selection returns the selected ids in record order.
func (e *Engine) Selection() []string {
	ids := make([]string, 0, len(e.selected))
	for _, rec := range e.records {
		id, _ := rec.ID()
		if _, ok := e.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// SelectionInfo reports the selection relative to the filtered set.
func (e *Engine) SelectionInfo() SelectionInfo {
	info := SelectionInfo{Count: len(e.selected)}
	if len(e.filtered) == 0 {
		return info
	}
	inFiltered := 0
	for _, rec := range e.filtered {
		id, _ := rec.ID()
		if _, ok := e.selected[id]; ok {
			inFiltered++
		}
	}
	info.AllSelected = inFiltered == len(e.filtered)
	info.Indeterminate = inFiltered > 0 && !info.AllSelected
	return info
}

// State returns a copy of the view state.
func (e *Engine) State() ViewState {
	s := e.state
	s.Filters = make(map[string]string, len(e.state.Filters))
	for k, v := range e.state.Filters {
		s.Filters[k] = v
	}
	s.Selected = e.Selection()
	return s
}

// View bundles everything the presentation layer renders.
func (e *Engine) View() View {
	return View{
		Rows:      e.VisibleRows(),
		Columns:   e.Columns(),
		Page:      e.PageInfo(),
		Selection: e.SelectionInfo(),
		State:     e.State(),
	}
}

// refresh recomputes the filtered, sorted and paged lists.
func (e *Engine) refresh() {
	e.filtered = Search(MatchFilters(e.records, e.state.Filters), e.state.Search)
	e.sorted = SortRecords(e.filtered, e.state.SortKey, e.state.SortDirection)
	e.visible = Paginate(e.sorted, e.state.CurrentPage, e.state.PageSize)
}
