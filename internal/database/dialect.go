package database

// Dialect abstracts the SQL differences between SQLite and PostgreSQL.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// Placeholder returns the parameter placeholder for the given position (1-indexed).
	// SQLite: "?", PostgreSQL: "$1", "$2", ...
	Placeholder(position int) string

	// SupportsLastInsertID reports whether Result.LastInsertId works.
	// PostgreSQL needs a RETURNING clause instead.
	SupportsLastInsertID() bool

	// ReturningClause returns the RETURNING clause for INSERT statements, or "".
	ReturningClause(column string) string

	// InitStatements run once after the connection is opened.
	InitStatements() []string

	// PrimaryKeyColumn returns the column definition of an auto-increment id.
	PrimaryKeyColumn() string

	// CaseInsensitiveText returns the column type used for layout names.
	// SQLite: TEXT COLLATE NOCASE, PostgreSQL: CITEXT
	CaseInsensitiveText() string

	// IsDuplicateKeyError returns true if the error is a unique constraint violation.
	IsDuplicateKeyError(err error) bool
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type. Unknown types get SQLite.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
