package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnemet/memgrid/internal/config"
)

func getView(t *testing.T, h http.Handler, target string) map[string]interface{} {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestNewServerMock(t *testing.T) {
	cfg, err := config.Parse([]byte("source:\n  dataset: users\n"))
	require.NoError(t, err)

	h, closeFn, err := newServer(cfg)
	require.NoError(t, err)
	defer closeFn()

	v := getView(t, h, "/view?filter=role:Manager")
	page := v["page"].(map[string]interface{})
	assert.Equal(t, 2.0, page["filtered_count"])
}

func TestNewServerSQLite(t *testing.T) {
	cfg, err := config.Parse([]byte(`
source:
  kind: sql
  query: SELECT 1 AS id, 'Acme Corp' AS customer
database:
  - name: local
    driver: sqlite3
    database: ":memory:"
`))
	require.NoError(t, err)

	h, closeFn, err := newServer(cfg)
	require.NoError(t, err)
	defer closeFn()

	v := getView(t, h, "/view")
	rows := v["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Corp", rows[0].(map[string]interface{})["customer"])

	cols := v["columns"].([]interface{})
	assert.Equal(t, "id", cols[0].(map[string]interface{})["key"])
}

func TestNewServerCatalog(t *testing.T) {
	cfg, err := config.Parse([]byte("source:\n  dataset: users\ncatalog:\n  path: testdata/catalogs/users.json\n"))
	require.NoError(t, err)

	h, closeFn, err := newServer(cfg)
	require.NoError(t, err)
	defer closeFn()

	v := getView(t, h, "/view")
	assert.Len(t, v["rows"], 3)
	assert.Len(t, v["columns"], 3)
}

func TestNewServerErrors(t *testing.T) {
	cfg, err := config.Parse([]byte("source:\n  kind: sql\n"))
	require.NoError(t, err)
	_, _, err = newServer(cfg)
	assert.Error(t, err, "sql source without database")

	cfg, err = config.Parse([]byte("source:\n  kind: carrier-pigeon\n"))
	require.NoError(t, err)
	_, _, err = newServer(cfg)
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "none.json")
	cfg, err = config.Parse([]byte("source:\n  kind: file\n  path: " + missing + "\n"))
	require.NoError(t, err)
	_, _, err = newServer(cfg)
	assert.Error(t, err, "columns are inferred from an initial load")

	cfg, err = config.Parse([]byte("catalog:\n  path: " + missing + "\n"))
	require.NoError(t, err)
	_, _, err = newServer(cfg)
	assert.Error(t, err)
}
