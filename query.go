package datastage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// QueryResult is the outcome of a Query call. Report is always populated
// and safe to hand to the calling agent; Err is non-nil when execution
// failed, in which case Report carries the error description as text.
type QueryResult struct {
	// Report is the rendered text payload
	Report string
	// Err is the typed execution error, nil on success
	Err *ExecutionError
}

// Query executes sqlQuery verbatim against the store and renders the
// result as text. A blank query lists the tables in the store instead.
//
// Query never hard-fails: malformed SQL, missing tables, and type errors
// are expected conditions for an LLM caller, so engine errors are absorbed
// into the report text. This is a deliberate asymmetry with Load.
func (s *Store) Query(ctx context.Context, sqlQuery string) *QueryResult {
	db, err := s.open(ctx)
	if err != nil {
		return queryFailure(sqlQuery, err)
	}
	defer db.Close()

	if strings.TrimSpace(sqlQuery) == "" {
		report, err := s.listTables(ctx, db)
		if err != nil {
			return queryFailure(sqlQuery, err)
		}
		return &QueryResult{Report: report}
	}

	rows, err := db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return queryFailure(sqlQuery, err)
	}
	defer rows.Close()

	headers, records, err := collectRows(rows)
	if err != nil {
		return queryFailure(sqlQuery, err)
	}

	var b strings.Builder
	b.WriteString("Query Results:\n")
	b.WriteString(sectionRule + "\n")
	fmt.Fprintf(&b, "Executed query: %s\n\n", sqlQuery)
	fmt.Fprintf(&b, "Returned %d rows\n\n", len(records))

	if len(records) == 0 {
		b.WriteString("No rows returned.\n")
		return &QueryResult{Report: b.String()}
	}

	b.WriteString(strings.Join(headers, " | ") + "\n")
	b.WriteString(rowRule + "\n")
	for _, record := range records {
		b.WriteString(strings.Join(record, " | ") + "\n")
	}
	return &QueryResult{Report: b.String()}
}

// listTables renders the store's table catalog, ascending by name.
func (s *Store) listTables(ctx context.Context, db *sql.DB) (string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT table_name, table_type
		 FROM information_schema.tables
		 WHERE table_schema = 'main'
		 ORDER BY table_name`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	_, records, err := collectRows(rows)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Database Tables:\n")
	b.WriteString(sectionRule + "\n")

	if len(records) == 0 {
		b.WriteString("No tables found in the database.\n")
		return b.String(), nil
	}

	b.WriteString("TABLE_NAME | TABLE_TYPE\n")
	b.WriteString(rowRule + "\n")
	for _, record := range records {
		b.WriteString(strings.Join(record, " | ") + "\n")
	}
	return b.String(), nil
}

// queryFailure wraps an engine error as an absorbed QueryResult.
func queryFailure(sqlQuery string, err error) *QueryResult {
	return &QueryResult{
		Report: fmt.Sprintf("Error executing query: %v", err),
		Err:    &ExecutionError{Query: sqlQuery, Err: err},
	}
}
