package datastage

import (
	"context"
	"fmt"
	"strings"
)

// Load materializes the named file as a table in the store and returns a
// text report describing what was loaded. The table name is derived from
// the file name; see LoadInto for caller-supplied names.
//
// Unlike Query and Cleanup, Load propagates failures: an unreadable input
// means the filename itself was wrong, and the calling agent needs a hard
// signal to retry with a different one.
func (s *Store) Load(ctx context.Context, filename string) (string, error) {
	return s.LoadInto(ctx, filename, "")
}

// LoadInto is Load with an explicit table name. An empty tableName derives
// the name from the file name.
//
// The table is created with IF NOT EXISTS semantics: loading into an
// existing table is a no-op for both schema and content, and the report
// then describes the existing table. Tables are never altered or dropped
// except by Cleanup removing the whole store.
func (s *Store) LoadInto(ctx context.Context, filename, tableName string) (string, error) {
	resolved, err := s.resolver.resolve(ctx, filename)
	if err != nil {
		return "", err
	}
	defer resolved.cleanup()

	staged, err := normalizeForEngine(resolved.Path)
	if err != nil {
		return "", &InputResolutionError{Filename: resolved.DisplayName, Err: err}
	}
	defer staged.cleanup()

	if tableName == "" {
		tableName = tableNameFromFile(resolved.DisplayName)
	}
	if !validIdentifier(tableName) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, tableName)
	}

	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	// DDL cannot take bound parameters, so the staged path enters the SQL
	// text as an escaped literal and the table name as a validated,
	// quoted identifier.
	createSQL := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s AS SELECT * FROM %s(%s)",
		quoteIdentifier(tableName), staged.kind.readerFunc(), quoteStringLiteral(staged.path),
	)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return "", &InputResolutionError{Filename: resolved.DisplayName, Err: err}
	}

	var rowCount int64
	countSQL := "SELECT COUNT(*) FROM " + quoteIdentifier(tableName)
	if err := db.QueryRowContext(ctx, countSQL).Scan(&rowCount); err != nil {
		return "", fmt.Errorf("datastage: count rows in %s: %w", tableName, err)
	}

	profiles, err := s.profileColumns(ctx, db, tableName)
	if err != nil {
		return "", err
	}

	sample, err := s.sampleRowsFor(ctx, db, tableName)
	if err != nil {
		return "", err
	}

	s.log.Info("loaded file into store",
		"file", resolved.DisplayName, "table", tableName, "rows", rowCount)

	var b strings.Builder
	fmt.Fprintf(&b, "Successfully loaded %d rows from %s into table '%s' in database at %s.\n\n",
		rowCount, resolved.DisplayName, tableName, s.path)
	writeSchemaSection(&b, profiles)
	b.WriteString("\n")
	writeSampleSection(&b, s.sampleRows, sample)
	return b.String(), nil
}
