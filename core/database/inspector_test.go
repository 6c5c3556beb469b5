package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE event_stats (name TEXT PRIMARY KEY, total INTEGER NOT NULL)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "event_stats")
	assert.NoError(t, err)
	assert.Len(t, columns, 2)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "integer", colMap["total"])

	// PRAGMA table_info returns an empty result for a non-existent table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE event_stats (name TEXT PRIMARY KEY)").Error)

	missing, err := MissingColumns(db, "event_stats", []string{"name", "total"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"total"}, missing)

	missing, err = MissingColumns(db, "absent", []string{"name"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"name"}, missing)
}
