package engine

import "errors"

// Sentinel errors
var (
	// ErrNoDatabaseSelected is returned when a table command runs before USE.
	ErrNoDatabaseSelected = errors.New("no database selected")
	// ErrDatabaseNotFound is returned when no category matches the database name.
	ErrDatabaseNotFound = errors.New("database not found")
	// ErrDatabaseExists is returned when creating a database that already exists.
	ErrDatabaseExists = errors.New("database already exists")
	// ErrDatabaseNotEmpty is returned when dropping a database that still has tables.
	ErrDatabaseNotEmpty = errors.New("database is not empty")
	// ErrTableNotFound is returned when no channel in the current database matches the table name.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableExists is returned when creating a table that already exists.
	ErrTableExists = errors.New("table already exists")
	// ErrInvalidName is returned when nothing is left of a name after sanitizing.
	ErrInvalidName = errors.New("invalid name")
	// ErrSchemaRequired is returned for SELECT * on a table without schema.
	ErrSchemaRequired = errors.New("schema required")
	// ErrUnknownColumn is returned when a selected column is not in the schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoValues is returned when INSERT is given no values.
	ErrNoValues = errors.New("no values")
	// ErrInvalidColumnSelection is returned when the column list is empty.
	ErrInvalidColumnSelection = errors.New("invalid column selection")
)
