package postgres

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Buffer is the materialized, memory-resident result of a completed
// query: the narrow view of the native client's result storage that
// this package reads from. Cell values are textual wire
// representations; a cell's null marker is independent of its content.
type Buffer interface {
	// RowCount returns the total number of rows.
	RowCount() int

	// FieldCount returns the number of columns per row.
	FieldCount() int

	// Value returns the textual representation of a cell. The returned
	// slice aliases the buffer's storage and stays valid only as long
	// as the buffer is alive.
	Value(row, col int) []byte

	// IsNull reports the cell's null marker.
	IsNull(row, col int) bool
}

// Handle shares ownership of a result buffer between a cursor and any
// other component reading the same result, e.g. a row-materialization
// layer. The row position and the lazily memoized row/field counts
// live here; the buffer contents never change after creation. The last
// owner to call Release triggers the release hook exactly once.
//
// A handle's row position is mutable state: do not drive one handle
// from multiple goroutines without external synchronization.
type Handle struct {
	id     string
	buf    Buffer
	logger zerolog.Logger
	debug  bool

	release func()
	refs    int

	row       int
	rows      int
	rowsSet   bool
	fields    int
	fieldsSet bool
}

// NewHandle wraps a result buffer. The release hook may be nil; when
// set it runs exactly once, after the last owner releases the handle.
// With debug set, every operation on the handle emits a trace line to
// logger identifying the handle.
func NewHandle(buf Buffer, release func(), debug bool, logger zerolog.Logger) *Handle {
	h := &Handle{
		id:      uuid.NewString(),
		buf:     buf,
		logger:  logger,
		debug:   debug,
		release: release,
		refs:    1,
		row:     -1,
	}
	h.trace("acquired result handle")
	return h
}

// ID returns the handle identifier used in trace output.
func (h *Handle) ID() string {
	return h.id
}

// Retain adds an owner. Each Retain needs a matching Release.
func (h *Handle) Retain() *Handle {
	h.refs++
	h.trace("retained result handle")
	return h
}

// Release drops one owner. When the last owner releases, the release
// hook frees the underlying buffer; further releases are no-ops.
func (h *Handle) Release() {
	if h.refs == 0 {
		return
	}
	h.refs--
	h.trace("released result handle")
	if h.refs == 0 && h.release != nil {
		h.release()
		h.release = nil
	}
}

// RowCount returns the buffer's total row count, computed on first
// access and memoized.
func (h *Handle) RowCount() int {
	if !h.rowsSet {
		h.rows = h.buf.RowCount()
		h.rowsSet = true
	}
	return h.rows
}

// FieldCount returns the buffer's field count, computed on first
// access and memoized.
func (h *Handle) FieldCount() int {
	if !h.fieldsSet {
		h.fields = h.buf.FieldCount()
		h.fieldsSet = true
	}
	return h.fields
}

func (h *Handle) trace(op string) {
	if h.debug {
		h.logger.Debug().Str("handle", h.id).Msg(op)
	}
}

func (h *Handle) traceIndex(op string, index int) {
	if h.debug {
		h.logger.Debug().Str("handle", h.id).Int("index", index).Msg(op)
	}
}
