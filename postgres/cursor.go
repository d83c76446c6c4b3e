package postgres

import (
	"strconv"

	"github.com/gear6io/pgbind/pkg/errors"
)

// Cursor is a forward-only, single-pass iterator over a result buffer.
// Next must return true before the first decode call.
//
// Decoding is best-effort textual parsing: a cell whose content does
// not parse as the requested type yields the type's zero value without
// an error. The null flag, taken from the buffer's own null marker, is
// the only authoritative signal of absence.
type Cursor struct {
	h *Handle
}

// NewCursor returns a cursor over the handle's buffer. The cursor
// shares the handle's row position with any other reader of the same
// handle.
func NewCursor(h *Handle) *Cursor {
	return &Cursor{h: h}
}

// Handle exposes the shared result handle, e.g. for a
// row-materialization layer that retains its own reference.
func (c *Cursor) Handle() *Handle {
	return c.h
}

// Close releases the cursor's reference on the handle.
func (c *Cursor) Close() error {
	c.h.Release()
	return nil
}

// Next moves to the next row. It returns true exactly once per row and
// false once the result is exhausted; further calls keep returning
// false. The first call memoizes the total row count.
func (c *Cursor) Next() bool {
	h := c.h
	h.trace("accessing next row")

	if h.row+1 >= h.RowCount() {
		return false
	}
	h.row++
	return true
}

// Bool decodes the column at index on the current row as a boolean.
// PostgreSQL's textual t/f literals parse via strconv.ParseBool.
func (c *Cursor) Bool(index int) (value bool, isNull bool, err error) {
	h := c.h
	h.traceIndex("binding boolean result", index)
	if err := c.checkIndex(index); err != nil {
		return false, false, err
	}

	if v, parseErr := strconv.ParseBool(string(h.buf.Value(h.row, index))); parseErr == nil {
		value = v
	}
	return value, h.buf.IsNull(h.row, index), nil
}

// Float64 decodes the column at index on the current row as a 64-bit
// floating point value.
func (c *Cursor) Float64(index int) (value float64, isNull bool, err error) {
	h := c.h
	h.traceIndex("binding floating point result", index)
	if err := c.checkIndex(index); err != nil {
		return 0, false, err
	}

	if v, parseErr := strconv.ParseFloat(string(h.buf.Value(h.row, index)), 64); parseErr == nil {
		value = v
	}
	return value, h.buf.IsNull(h.row, index), nil
}

// Int64 decodes the column at index on the current row as a 64-bit
// signed integer.
func (c *Cursor) Int64(index int) (value int64, isNull bool, err error) {
	h := c.h
	h.traceIndex("binding integral result", index)
	if err := c.checkIndex(index); err != nil {
		return 0, false, err
	}

	if v, parseErr := strconv.ParseInt(string(h.buf.Value(h.row, index)), 10, 64); parseErr == nil {
		value = v
	}
	return value, h.buf.IsNull(h.row, index), nil
}

// Text returns a view into the buffer's storage for the column at
// index on the current row, without copying. The view stays valid only
// as long as the underlying buffer is alive. A present-but-empty
// string and a NULL are distinguished by the null flag, never by
// length.
func (c *Cursor) Text(index int) (view []byte, isNull bool, err error) {
	h := c.h
	h.traceIndex("binding text result", index)
	if err := c.checkIndex(index); err != nil {
		return nil, false, err
	}

	return h.buf.Value(h.row, index), h.buf.IsNull(h.row, index), nil
}

// checkIndex rejects indexes at or beyond the field count; the field
// count is memoized on the first decode.
func (c *Cursor) checkIndex(index int) error {
	h := c.h
	if fields := h.FieldCount(); index < 0 || index >= fields {
		return NewInvalidColumnIndex(index, fields)
	}
	if h.row < 0 {
		return errors.New(errors.CommonInvalidInput, "decode before first advance of the cursor", nil)
	}
	return nil
}
