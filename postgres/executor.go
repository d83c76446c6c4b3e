package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Statement is the seam to the query builder: anything that renders
// itself to SQL text.
type Statement interface {
	SQL() string
}

// Raw is a plain SQL string statement.
type Raw string

func (r Raw) SQL() string {
	return string(r)
}

// Querier is the narrow slice of the native client the executor needs:
// run one SQL string and return the fully materialized results.
// *pgconn.PgConn satisfies it through PgConnQuerier.
type Querier interface {
	Exec(ctx context.Context, sql string) ([]*pgconn.Result, error)
}

// Executor runs statements against the native client. Failures are
// classified into the kind tree with the offending query attached;
// result sets are wrapped in a handle for cursor iteration.
type Executor struct {
	querier Querier
	logger  zerolog.Logger
	debug   bool
}

// NewExecutor creates an executor over the given querier. With debug
// set, queries and all handle operations emit trace lines to logger.
func NewExecutor(querier Querier, debug bool, logger zerolog.Logger) *Executor {
	return &Executor{
		querier: querier,
		logger:  logger,
		debug:   debug,
	}
}

// Query runs a statement that returns rows. The caller owns the
// returned cursor and must close it to release the result buffer.
func (e *Executor) Query(ctx context.Context, stmt Statement) (*Cursor, error) {
	sql := stmt.SQL()
	if e.debug {
		e.logger.Debug().Str("query", sql).Msg("executing query")
	}

	results, err := e.querier.Exec(ctx, sql)
	if err != nil {
		return nil, ClassifyError(err, sql)
	}
	if len(results) == 0 {
		return nil, NewSQLError("statement produced no result", sql)
	}
	if resErr := results[0].Err; resErr != nil {
		return nil, ClassifyError(resErr, sql)
	}

	handle := NewHandle(NewPgconnBuffer(results[0]), nil, e.debug, e.logger)
	return NewCursor(handle), nil
}

// Exec runs a statement that returns no rows and reports the number of
// rows affected, summed over the command tags of every result.
func (e *Executor) Exec(ctx context.Context, stmt Statement) (int64, error) {
	sql := stmt.SQL()
	if e.debug {
		e.logger.Debug().Str("query", sql).Msg("executing statement")
	}

	results, err := e.querier.Exec(ctx, sql)
	if err != nil {
		return 0, ClassifyError(err, sql)
	}

	var affected int64
	for _, res := range results {
		if res.Err != nil {
			return 0, ClassifyError(res.Err, sql)
		}
		affected += res.CommandTag.RowsAffected()
	}
	return affected, nil
}
