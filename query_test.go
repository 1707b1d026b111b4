package datastage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_SelectRows(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t, nil)
	writeCSV(t, dir, "customers.csv", customersCSV)
	_, err := store.Load(context.Background(), "customers.csv")
	require.NoError(t, err)

	result := store.Query(context.Background(), "SELECT name FROM customers WHERE segment = 'gold' ORDER BY name")
	require.Nil(t, result.Err)

	assert.Contains(t, result.Report, "Query Results:")
	assert.Contains(t, result.Report, "Executed query: SELECT name FROM customers WHERE segment = 'gold' ORDER BY name")
	assert.Contains(t, result.Report, "Returned 2 rows")
	assert.Contains(t, result.Report, "name")
	assert.Contains(t, result.Report, "alice")
	assert.Contains(t, result.Report, "carol")
}

func TestQuery_NoRowsReturned(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t, nil)
	writeCSV(t, dir, "customers.csv", customersCSV)
	_, err := store.Load(context.Background(), "customers.csv")
	require.NoError(t, err)

	result := store.Query(context.Background(), "SELECT * FROM customers WHERE id > 100")
	require.Nil(t, result.Err)

	assert.Contains(t, result.Report, "Returned 0 rows")
	assert.Contains(t, result.Report, "No rows returned.")
}

func TestQuery_EmptyListsTables(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t, nil)
	writeCSV(t, dir, "orders.csv", "id\n1\n")
	writeCSV(t, dir, "customers.csv", customersCSV)

	_, err := store.Load(context.Background(), "orders.csv")
	require.NoError(t, err)
	_, err = store.Load(context.Background(), "customers.csv")
	require.NoError(t, err)

	result := store.Query(context.Background(), "")
	require.Nil(t, result.Err)

	assert.Contains(t, result.Report, "Database Tables:")
	assert.Contains(t, result.Report, "TABLE_NAME | TABLE_TYPE")
	assert.Contains(t, result.Report, "customers | BASE TABLE")
	assert.Contains(t, result.Report, "orders | BASE TABLE")

	// Ascending by name: customers before orders.
	assert.Less(t,
		strings.Index(result.Report, "customers"),
		strings.Index(result.Report, "orders"))
}

func TestQuery_BlankQueryOnEmptyStore(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, nil)

	result := store.Query(context.Background(), "   ")
	require.Nil(t, result.Err)
	assert.Contains(t, result.Report, "No tables found in the database.")
}

func TestQuery_ErrorsAbsorbedAsText(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, nil)

	tests := []struct {
		name string
		sql  string
	}{
		{name: "missing table", sql: "SELECT * FROM nonexistent"},
		{name: "malformed sql", sql: "SELEKT broken FROM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := store.Query(context.Background(), tt.sql)

			require.NotNil(t, result.Err, "execution error must be surfaced as a typed value")
			assert.Equal(t, tt.sql, result.Err.Query)
			assert.Contains(t, result.Report, "Error executing query:")
		})
	}
}

func TestQuery_WritesPersistAcrossCalls(t *testing.T) {
	t.Parallel()

	store, dir := newTestStore(t, nil)
	writeCSV(t, dir, "customers.csv", customersCSV)
	_, err := store.Load(context.Background(), "customers.csv")
	require.NoError(t, err)

	insert := store.Query(context.Background(), "INSERT INTO customers VALUES (5, 'erin', 'gold')")
	require.Nil(t, insert.Err)

	count := store.Query(context.Background(), "SELECT COUNT(*) FROM customers")
	require.Nil(t, count.Err)
	assert.Contains(t, count.Report, "5", "insert must be visible to a later connection")
}
