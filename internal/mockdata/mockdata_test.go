package mockdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnemet/memgrid"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"engagement", "revenue", "users"}, Names())
}

func TestLookup(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range Names() {
		ds, ok := Lookup(name, now)
		require.True(t, ok, name)
		assert.Equal(t, name, ds.Name)

		// every dataset must build a valid engine
		_, err := memgrid.New(ds.Records, ds.Columns)
		assert.NoError(t, err, name)
	}

	_, ok := Lookup("weather", now)
	assert.False(t, ok)
}

func TestUsersRelativeLogin(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ds := Users(now)
	require.Len(t, ds.Records, 6)

	assert.Equal(t, now.Add(-30*time.Minute), ds.Records[4]["lastLogin"])
	assert.Nil(t, ds.Records[5]["lastLogin"])

	e, err := memgrid.New(ds.Records, ds.Columns)
	require.NoError(t, err)
	e.SetSortDirection("lastLogin", memgrid.Desc)
	rows := e.VisibleRows()
	assert.Equal(t, "Lisa Wang", rows[0]["name"])
	assert.Equal(t, "James Wilson", rows[len(rows)-1]["name"])
}
