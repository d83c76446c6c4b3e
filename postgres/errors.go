// Package postgres binds statement sources to the PostgreSQL native
// client protocol. It classifies server failures into a hierarchical
// kind tree mirroring the SQLSTATE two-level scheme and exposes a
// forward-only cursor over materialized query results.
package postgres

import (
	"strconv"

	"github.com/gear6io/pgbind/pkg/errors"
)

// Failure kinds, following the two-level hierarchy defined by the
// PostgreSQL error codes (Appendix A of the PostgreSQL documentation).
// Callers match at any granularity via errors.IsCode: a unique_violation
// is also an integrity_constraint_violation, a sql failure, and a
// failure. Two libpqxx lineage quirks are kept: statement completion
// unknown has separate status as in_doubt, and too_many_connections is
// classified under broken_connection rather than insufficient_resources.
var (
	// Failure is the root of the kind tree; every connector failure
	// descends from it.
	Failure = errors.MustNewCode("postgres.failure")

	// Lost or failed backend connection.
	BrokenConnection   = errors.RegisterKind(errors.MustNewCode("postgres.broken_connection"), Failure)
	TooManyConnections = errors.RegisterKind(errors.MustNewCode("postgres.too_many_connections"), BrokenConnection)

	// InDoubt reports a connection lost while finishing a transaction,
	// with no way of telling whether the backend committed it. Raised by
	// commit logic, never by SQLSTATE classification.
	InDoubt = errors.RegisterKind(errors.MustNewCode("postgres.in_doubt"), Failure)

	// InvalidColumnIndex reports a decode request outside the result's
	// field range. It carries no query, so it hangs off the root rather
	// than the sql branch.
	InvalidColumnIndex = errors.RegisterKind(errors.MustNewCode("postgres.invalid_column_index"), Failure)

	// SQLError covers failed statements; errors of this branch carry
	// the offending query text.
	SQLError = errors.RegisterKind(errors.MustNewCode("postgres.sql"), Failure)

	FeatureNotSupported = errors.RegisterKind(errors.MustNewCode("postgres.feature_not_supported"), SQLError)
	DataException       = errors.RegisterKind(errors.MustNewCode("postgres.data_exception"), SQLError)

	IntegrityConstraintViolation = errors.RegisterKind(errors.MustNewCode("postgres.integrity_constraint_violation"), SQLError)
	RestrictViolation            = errors.RegisterKind(errors.MustNewCode("postgres.restrict_violation"), IntegrityConstraintViolation)
	NotNullViolation             = errors.RegisterKind(errors.MustNewCode("postgres.not_null_violation"), IntegrityConstraintViolation)
	ForeignKeyViolation          = errors.RegisterKind(errors.MustNewCode("postgres.foreign_key_violation"), IntegrityConstraintViolation)
	UniqueViolation              = errors.RegisterKind(errors.MustNewCode("postgres.unique_violation"), IntegrityConstraintViolation)
	CheckViolation               = errors.RegisterKind(errors.MustNewCode("postgres.check_violation"), IntegrityConstraintViolation)

	InvalidCursorState      = errors.RegisterKind(errors.MustNewCode("postgres.invalid_cursor_state"), SQLError)
	InvalidSQLStatementName = errors.RegisterKind(errors.MustNewCode("postgres.invalid_sql_statement_name"), SQLError)
	InvalidCursorName       = errors.RegisterKind(errors.MustNewCode("postgres.invalid_cursor_name"), SQLError)

	// SyntaxError and its descendants additionally carry the
	// approximate character offset reported by the server.
	SyntaxError       = errors.RegisterKind(errors.MustNewCode("postgres.syntax"), SQLError)
	UndefinedColumn   = errors.RegisterKind(errors.MustNewCode("postgres.undefined_column"), SyntaxError)
	UndefinedFunction = errors.RegisterKind(errors.MustNewCode("postgres.undefined_function"), SyntaxError)
	UndefinedTable    = errors.RegisterKind(errors.MustNewCode("postgres.undefined_table"), SyntaxError)

	InsufficientPrivilege = errors.RegisterKind(errors.MustNewCode("postgres.insufficient_privilege"), SQLError)

	// Resource shortage on the server.
	InsufficientResources = errors.RegisterKind(errors.MustNewCode("postgres.insufficient_resources"), SQLError)
	DiskFull              = errors.RegisterKind(errors.MustNewCode("postgres.disk_full"), InsufficientResources)
	OutOfMemory           = errors.RegisterKind(errors.MustNewCode("postgres.out_of_memory"), InsufficientResources)

	// Failures from PL/pgSQL procedures.
	PLpgSQLError       = errors.RegisterKind(errors.MustNewCode("postgres.plpgsql"), SQLError)
	PLpgSQLRaise       = errors.RegisterKind(errors.MustNewCode("postgres.plpgsql_raise"), PLpgSQLError)
	PLpgSQLNoDataFound = errors.RegisterKind(errors.MustNewCode("postgres.plpgsql_no_data_found"), PLpgSQLError)
	PLpgSQLTooManyRows = errors.RegisterKind(errors.MustNewCode("postgres.plpgsql_too_many_rows"), PLpgSQLError)
)

func newQueryFailure(kind errors.Code, message, query string) *errors.Error {
	return errors.New(kind, message, nil).WithQuery(query)
}

func newSyntaxFailure(kind errors.Code, message, query string, position []int) *errors.Error {
	err := newQueryFailure(kind, message, query)
	if len(position) > 0 {
		err.WithPosition(position[0])
	}
	return err
}

// Helper constructors, one per failure kind.

func NewFailure(message string) *errors.Error {
	return errors.New(Failure, message, nil)
}

func NewBrokenConnection(message string) *errors.Error {
	return errors.New(BrokenConnection, message, nil)
}

func NewTooManyConnections(message string) *errors.Error {
	return errors.New(TooManyConnections, message, nil)
}

func NewInDoubt(message string) *errors.Error {
	return errors.New(InDoubt, message, nil)
}

func NewInvalidColumnIndex(index, fieldCount int) *errors.Error {
	err := errors.Newf(InvalidColumnIndex, "column index %d out of range, result has %d fields", index, fieldCount)
	err.AddContext("index", strconv.Itoa(index))
	err.AddContext("field_count", strconv.Itoa(fieldCount))
	return err
}

func NewSQLError(message, query string) *errors.Error {
	return newQueryFailure(SQLError, message, query)
}

func NewFeatureNotSupported(message, query string) *errors.Error {
	return newQueryFailure(FeatureNotSupported, message, query)
}

func NewDataException(message, query string) *errors.Error {
	return newQueryFailure(DataException, message, query)
}

func NewIntegrityConstraintViolation(message, query string) *errors.Error {
	return newQueryFailure(IntegrityConstraintViolation, message, query)
}

func NewRestrictViolation(message, query string) *errors.Error {
	return newQueryFailure(RestrictViolation, message, query)
}

func NewNotNullViolation(message, query string) *errors.Error {
	return newQueryFailure(NotNullViolation, message, query)
}

func NewForeignKeyViolation(message, query string) *errors.Error {
	return newQueryFailure(ForeignKeyViolation, message, query)
}

func NewUniqueViolation(message, query string) *errors.Error {
	return newQueryFailure(UniqueViolation, message, query)
}

func NewCheckViolation(message, query string) *errors.Error {
	return newQueryFailure(CheckViolation, message, query)
}

func NewInvalidCursorState(message, query string) *errors.Error {
	return newQueryFailure(InvalidCursorState, message, query)
}

func NewInvalidSQLStatementName(message, query string) *errors.Error {
	return newQueryFailure(InvalidSQLStatementName, message, query)
}

func NewInvalidCursorName(message, query string) *errors.Error {
	return newQueryFailure(InvalidCursorName, message, query)
}

// NewSyntaxError reports a malformed statement. The optional position
// is the 1-based character offset reported by the server; it defaults
// to errors.PositionUnknown.
func NewSyntaxError(message, query string, position ...int) *errors.Error {
	return newSyntaxFailure(SyntaxError, message, query, position)
}

func NewUndefinedColumn(message, query string, position ...int) *errors.Error {
	return newSyntaxFailure(UndefinedColumn, message, query, position)
}

func NewUndefinedFunction(message, query string, position ...int) *errors.Error {
	return newSyntaxFailure(UndefinedFunction, message, query, position)
}

func NewUndefinedTable(message, query string, position ...int) *errors.Error {
	return newSyntaxFailure(UndefinedTable, message, query, position)
}

func NewInsufficientPrivilege(message, query string) *errors.Error {
	return newQueryFailure(InsufficientPrivilege, message, query)
}

func NewInsufficientResources(message, query string) *errors.Error {
	return newQueryFailure(InsufficientResources, message, query)
}

func NewDiskFull(message, query string) *errors.Error {
	return newQueryFailure(DiskFull, message, query)
}

func NewOutOfMemory(message, query string) *errors.Error {
	return newQueryFailure(OutOfMemory, message, query)
}

func NewPLpgSQLError(message, query string) *errors.Error {
	return newQueryFailure(PLpgSQLError, message, query)
}

func NewPLpgSQLRaise(message, query string) *errors.Error {
	return newQueryFailure(PLpgSQLRaise, message, query)
}

func NewPLpgSQLNoDataFound(message, query string) *errors.Error {
	return newQueryFailure(PLpgSQLNoDataFound, message, query)
}

func NewPLpgSQLTooManyRows(message, query string) *errors.Error {
	return newQueryFailure(PLpgSQLTooManyRows, message, query)
}
