package postgres

import (
	"context"

	"github.com/gear6io/pgbind/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgconnBuffer adapts a fully materialized *pgconn.Result to the
// Buffer interface. pgconn reports NULL cells as nil row values and
// text-format values as raw bytes.
type pgconnBuffer struct {
	res *pgconn.Result
}

// NewPgconnBuffer wraps a pgconn result that was read in full, e.g.
// via ReadAll.
func NewPgconnBuffer(res *pgconn.Result) Buffer {
	return &pgconnBuffer{res: res}
}

func (b *pgconnBuffer) RowCount() int {
	return len(b.res.Rows)
}

func (b *pgconnBuffer) FieldCount() int {
	return len(b.res.FieldDescriptions)
}

func (b *pgconnBuffer) Value(row, col int) []byte {
	return b.res.Rows[row][col]
}

func (b *pgconnBuffer) IsNull(row, col int) bool {
	return b.res.Rows[row][col] == nil
}

// PgConnQuerier adapts *pgconn.PgConn to the Querier seam, reading
// every result in full before returning.
type PgConnQuerier struct {
	Conn *pgconn.PgConn
}

func (q PgConnQuerier) Exec(ctx context.Context, sql string) ([]*pgconn.Result, error) {
	return q.Conn.Exec(ctx, sql).ReadAll()
}

// Dial establishes a native client connection. A failure to connect is
// reported as broken_connection; no query has been issued at that
// point, so no query text is attached.
func Dial(ctx context.Context, connString string) (*pgconn.PgConn, error) {
	conn, err := pgconn.Connect(ctx, connString)
	if err != nil {
		return nil, errors.New(BrokenConnection, "could not establish connection to server", err)
	}
	return conn, nil
}
