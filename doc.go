// Package datastage exposes a small set of callable actions that let an
// LLM-driven agent stage delimited data files into an embedded DuckDB
// database and explore them with ad-hoc SQL.
//
// The package deliberately delegates all storage, parsing, and query
// execution to DuckDB. Its own job is the glue an agent needs around the
// engine:
//
//   - resolving an imprecise, model-supplied filename to a readable file,
//     fetching it from a chat attachment store when possible and falling
//     back to the local filesystem when not
//   - materializing the file as a persistent table and describing the
//     resulting schema back to the caller, including a heuristic
//     enumeration of likely categorical columns and a small row sample
//   - executing caller-supplied SQL (or listing tables) and rendering the
//     result as plain text an agent can read
//   - deleting the database file
//
// # Basic Usage
//
//	store, err := datastage.New(datastage.NewConfig().
//		WithStorePath("data/customer_data.duckdb"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	report, err := store.Load(ctx, "customers.csv")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(report)
//
//	result := store.Query(ctx, "SELECT segment, COUNT(*) FROM customers GROUP BY 1")
//	fmt.Println(result.Report)
//
// # Error Policy
//
// Load propagates failures: an unreadable input is a hard error the calling
// agent must see so it can retry with a different filename. Query and
// Cleanup never fail; engine and filesystem errors are absorbed into the
// returned text because malformed ad-hoc SQL is an expected, frequent,
// recoverable condition for an LLM caller. The absorbed error is still
// available as a typed value on the result.
//
// # Trust Boundary
//
// Query executes the supplied SQL string verbatim. This is acceptable only
// because the caller is the sole owner of the store file; do not expose
// Query across a trust boundary.
package datastage
