package recordsource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnemet/memgrid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// Driver names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Source supplies the raw records of a grid
type Source interface {
	Load(ctx context.Context) ([]memgrid.Record, error)
}

// Static serves an in-memory slice
type Static []memgrid.Record

func (s Static) Load(ctx context.Context) ([]memgrid.Record, error) {
	return s, nil
}

// SQLSource loads records by running Query on DB
type SQLSource struct {
	DB    *sql.DB
	Query string
	Args  []interface{}
}

// Open connects to a postgres or sqlite3 database and wraps query.
func Open(driver, dsn, query string) (*SQLSource, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &SQLSource{DB: db, Query: query}, nil
}

func (s *SQLSource) Load(ctx context.Context) ([]memgrid.Record, error) {
	rows, err := s.DB.QueryContext(ctx, s.Query, s.Args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Close releases the database handle
func (s *SQLSource) Close() error {
	return s.DB.Close()
}

func scanRows(rows *sql.Rows) ([]memgrid.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := []memgrid.Record{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		pointers := make([]interface{}, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		rec := make(memgrid.Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// FileSource reads a JSON or YAML array of objects
type FileSource struct {
	Path string
}

func (f FileSource) Load(ctx context.Context) ([]memgrid.Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	var raw []map[string]interface{}
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(f.Path), err)
	}

	records := make([]memgrid.Record, len(raw))
	for i, m := range raw {
		records[i] = memgrid.Record(m)
	}
	return records, nil
}
