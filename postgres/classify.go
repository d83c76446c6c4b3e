package postgres

import (
	stderrors "errors"
	"net"

	"github.com/gear6io/pgbind/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// Exact SQLSTATE codes with a dedicated kind.
var stateKinds = map[string]errors.Code{
	"0A000": FeatureNotSupported,
	"23001": RestrictViolation,
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"42501": InsufficientPrivilege,
	"42601": SyntaxError,
	"42703": UndefinedColumn,
	"42883": UndefinedFunction,
	"42P01": UndefinedTable,
	"53100": DiskFull,
	"53200": OutOfMemory,
	"53300": TooManyConnections,
	"P0001": PLpgSQLRaise,
	"P0002": PLpgSQLNoDataFound,
	"P0003": PLpgSQLTooManyRows,
}

// SQLSTATE classes (first two bytes) for codes without an exact entry.
var classKinds = map[string]errors.Code{
	"08": BrokenConnection,
	"0A": FeatureNotSupported,
	"22": DataException,
	"23": IntegrityConstraintViolation,
	"24": InvalidCursorState,
	"26": InvalidSQLStatementName,
	"34": InvalidCursorName,
	"42": SyntaxError,
	"53": InsufficientResources,
	"P0": PLpgSQLError,
}

// KindForState returns the most specific kind for a SQLSTATE: exact
// code first, then its class, then the generic sql kind. An empty
// state means the failure happened before any protocol exchange and
// maps to the root kind.
func KindForState(state string) errors.Code {
	if state == "" {
		return Failure
	}
	if kind, ok := stateKinds[state]; ok {
		return kind
	}
	if len(state) >= 2 {
		if kind, ok := classKinds[state[:2]]; ok {
			return kind
		}
	}
	return SQLError
}

// ClassifyState builds the failure for a server-reported SQLSTATE.
// Kinds of the sql branch carry the query; the syntax branch also
// carries the server's 1-based parse position when it reported one.
// Connection kinds carry neither.
func ClassifyState(state, message, query string, position int) *errors.Error {
	kind := KindForState(state)
	switch {
	case !kind.IsA(SQLError):
		return errors.New(kind, message, nil)
	case kind.IsA(SyntaxError):
		err := newQueryFailure(kind, message, query)
		if position > 0 {
			err.WithPosition(position)
		}
		return err
	default:
		return newQueryFailure(kind, message, query)
	}
}

// ClassifyError maps a pgconn-level failure for the given query into
// the kind tree. Server errors classify by SQLSTATE; transport
// failures with no SQLSTATE become broken_connection when the network
// layer is implicated and the root failure kind otherwise.
func ClassifyError(err error, query string) *errors.Error {
	if err == nil {
		return nil
	}

	var classified *errors.Error
	if stderrors.As(err, &classified) {
		return classified
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		return ClassifyState(pgErr.Code, pgErr.Message, query, int(pgErr.Position)).WithCause(err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) || pgconn.Timeout(err) {
		return errors.New(BrokenConnection, "connection to the server was lost", err)
	}

	return errors.New(Failure, err.Error(), err)
}
