package datastage

import (
	"path/filepath"
	"strings"
)

// Table and column names cannot be bound as query parameters, so they are
// interpolated into SQL text. Everything interpolated goes through
// validIdentifier or quoteIdentifier; file paths are always bound, never
// interpolated.

// validIdentifier reports whether name is safe to use as an unquoted-style
// SQL identifier: a letter or underscore followed by letters, digits, or
// underscores.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteIdentifier wraps name in double quotes, doubling any embedded
// quotes. Used for column names coming back from the engine catalog, which
// may contain characters validIdentifier rejects.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteStringLiteral renders s as a SQL string literal, doubling embedded
// single quotes. The engine rejects bound parameters inside DDL, so the
// staged file path in CREATE TABLE AS goes through this instead of binding.
func quoteStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// tableNameFromFile derives a table name from a file name: the basename
// with compression and format extensions stripped, sanitized into a valid
// identifier. "Customer Data.csv.gz" becomes "customer_data".
func tableNameFromFile(fileName string) string {
	stem := filepath.Base(fileName)
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(stem, ext) {
			stem = strings.TrimSuffix(stem, ext)
			break
		}
	}
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return sanitizeIdentifier(stem)
}

// sanitizeIdentifier rewrites s into a valid identifier: lowercased, with
// every disallowed rune replaced by an underscore and a leading underscore
// prepended when s starts with a digit. An empty result becomes "data".
func sanitizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, "_") == "" {
		return "data"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}
