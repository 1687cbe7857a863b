package memgrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Add appends a record. It must carry an id not already present.
func (e *Engine) Add(rec Record) error {
	id, ok := rec.ID()
	if !ok {
		return ErrMissingID
	}
	if _, dup := e.index[id]; dup {
		return fmt.Errorf("id %s: %w", id, ErrDuplicateID)
	}
	e.index[id] = len(e.records)
	e.records = append(e.records, cloneRecord(rec))
	e.refresh()
	return nil
}

// Update replaces the record with the same id. It reports false when no
// such record exists.
func (e *Engine) Update(rec Record) bool {
	id, ok := rec.ID()
	if !ok {
		return false
	}
	i, exists := e.index[id]
	if !exists {
		return false
	}
	e.records[i] = cloneRecord(rec)
	e.refresh()
	return true
}

// Remove deletes the record with id and drops it from the selection.
func (e *Engine) Remove(id string) bool {
	i, ok := e.index[id]
	if !ok {
		return false
	}
	e.records = append(e.records[:i], e.records[i+1:]...)
	delete(e.selected, id)
	e.reindex()
	e.refresh()
	e.clampPage()
	return true
}

// BulkSet writes value into key on every selected record and clears the
// selection. It returns the number of records changed.
func (e *Engine) BulkSet(key string, value interface{}) int {
	if key == IDField {
		return 0
	}
	n := 0
	for id := range e.selected {
		i := e.index[id]
		rec := cloneRecord(e.records[i])
		rec[key] = value
		e.records[i] = rec
		n++
	}
	e.selected = make(map[string]struct{})
	e.refresh()
	return n
}

// ParseValue converts raw text into the kind the column already holds, so a
// value set from a query string sorts among the existing ones. Text that
// does not parse, or a column with only nil values, stays a string.
func (e *Engine) ParseValue(key, raw string) interface{} {
	for _, rec := range e.records {
		v := rec[key]
		if v == nil {
			continue
		}
		switch k, _ := classify(v); k {
		case kindNumber:
			if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
				return n
			}
			if f, ok := numeric(raw); ok {
				return f
			}
		case kindBool:
			if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
				return b
			}
		case kindTime:
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw)); err == nil {
				return t
			}
		}
		return raw
	}
	return raw
}

func (e *Engine) reindex() {
	e.index = make(map[string]int, len(e.records))
	for i, rec := range e.records {
		id, _ := rec.ID()
		e.index[id] = i
	}
}

// clampPage keeps the current page inside the filtered set after rows
// disappear.
func (e *Engine) clampPage() {
	info := e.PageInfo()
	if info.TotalPages > 0 && e.state.CurrentPage > info.TotalPages {
		e.state.CurrentPage = info.TotalPages
		e.refresh()
	}
}
