//go:build cgo

package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/crimeetl/internal/model"
)

func TestSQLiteSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "crime.db")
	s := NewSQLiteSink(path)

	require.NoError(t, s.Write(context.Background(), []*model.Table{crimeTable(), bridgeTable()}))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "Crime"`).Scan(&n))
	assert.Equal(t, 2, n)

	var crime string
	require.NoError(t, db.QueryRow(`SELECT crime_type FROM "Crime" WHERE cID = 2`).Scan(&crime))
	assert.Equal(t, `says "hi", twice`, crime)

	var pid sql.NullInt64
	require.NoError(t, db.QueryRow(`SELECT pID FROM "Crime_Property" WHERE cID = 2`).Scan(&pid))
	assert.False(t, pid.Valid)

	var typ string
	require.NoError(t, db.QueryRow(`SELECT typeof(cID) FROM "Crime_Property" WHERE cID = 1`).Scan(&typ))
	assert.Equal(t, "integer", typ)
}

func TestSQLiteSink_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crime.db")
	s := NewSQLiteSink(path)

	require.NoError(t, s.Write(context.Background(), []*model.Table{crimeTable()}))

	smaller := crimeTable()
	smaller.Rows = smaller.Rows[:1]
	require.NoError(t, s.Write(context.Background(), []*model.Table{smaller}))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "Crime"`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteSink_RollbackOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crime.db")
	s := NewSQLiteSink(path)
	require.NoError(t, s.Write(context.Background(), []*model.Table{crimeTable()}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, s.Write(ctx, []*model.Table{bridgeTable()}))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = 'Crime_Property'`).Scan(&n))
	assert.Zero(t, n)
}
