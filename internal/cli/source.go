package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/gnemet/memgrid"
	"github.com/gnemet/memgrid/database/recordsource"
	"github.com/gnemet/memgrid/internal/config"
	"github.com/gnemet/memgrid/internal/mockdata"
)

// gridSource is a record source together with the columns to show it with
type gridSource struct {
	Source  recordsource.Source
	Columns []memgrid.Column
	Close   func() error
}

func noClose() error { return nil }

func mockSource(name string, now time.Time) (*gridSource, error) {
	ds, ok := mockdata.Lookup(name, now)
	if !ok {
		return nil, fmt.Errorf("unknown dataset %q (available: %v)", name, mockdata.Names())
	}
	return &gridSource{
		Source:  recordsource.Static(ds.Records),
		Columns: ds.Columns,
		Close:   noClose,
	}, nil
}

// sourceFromConfig builds the record source a config file describes.
func sourceFromConfig(cfg *config.Config, now time.Time) (*gridSource, error) {
	switch cfg.Source.Kind {
	case config.SourceMock:
		return mockSource(cfg.Source.Dataset, now)
	case config.SourceFile:
		return &gridSource{Source: recordsource.FileSource{Path: cfg.Source.Path}, Close: noClose}, nil
	case config.SourceSQL:
		db, ok := cfg.DefaultDatabase()
		if !ok {
			return nil, fmt.Errorf("source kind sql needs a database entry")
		}
		src, err := recordsource.Open(db.DriverName(), db.DSN(), cfg.Source.Query)
		if err != nil {
			return nil, err
		}
		return &gridSource{Source: src, Close: src.Close}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// inferColumns derives a sortable text schema from the keys of the records.
func inferColumns(records []memgrid.Record) []memgrid.Column {
	seen := map[string]bool{}
	var keys []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] && k != memgrid.IDField {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)

	cols := make([]memgrid.Column, 0, len(keys)+1)
	cols = append(cols, memgrid.Column{Key: memgrid.IDField, Label: memgrid.IDField, Sortable: true, Type: memgrid.TypeText})
	for _, k := range keys {
		cols = append(cols, memgrid.Column{Key: k, Label: k, Sortable: true, Type: memgrid.TypeText})
	}
	return cols
}
