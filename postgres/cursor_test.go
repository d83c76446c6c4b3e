package postgres

import (
	"bytes"
	"testing"

	"github.com/gear6io/pgbind/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBuffer is an in-memory Buffer with independent null markers, so
// tests can pin down that the null flag wins over cell content. It
// counts accessor calls to verify memoization.
type fakeBuffer struct {
	fields int
	values [][]string
	nulls  [][]bool

	rowCountCalls   int
	fieldCountCalls int
}

func (b *fakeBuffer) RowCount() int {
	b.rowCountCalls++
	return len(b.values)
}

func (b *fakeBuffer) FieldCount() int {
	b.fieldCountCalls++
	return b.fields
}

func (b *fakeBuffer) Value(row, col int) []byte {
	return []byte(b.values[row][col])
}

func (b *fakeBuffer) IsNull(row, col int) bool {
	if b.nulls == nil {
		return false
	}
	return b.nulls[row][col]
}

func newTestCursor(buf Buffer) *Cursor {
	return NewCursor(NewHandle(buf, nil, false, zerolog.Nop()))
}

func TestNextExhaustion(t *testing.T) {
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"1"}, {"2"}, {"3"}},
	}
	cursor := newTestCursor(buf)

	for i := 0; i < 3; i++ {
		require.True(t, cursor.Next(), "row %d", i)
	}

	// Exhaustion is idempotent
	assert.False(t, cursor.Next())
	assert.False(t, cursor.Next())
}

func TestNextEmptyResult(t *testing.T) {
	cursor := newTestCursor(&fakeBuffer{fields: 1})

	assert.False(t, cursor.Next())
	assert.False(t, cursor.Next())
}

func TestNextMemoizesRowCount(t *testing.T) {
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"a"}, {"b"}},
	}
	cursor := newTestCursor(buf)

	for cursor.Next() {
	}
	assert.Equal(t, 1, buf.rowCountCalls)
}

func TestDecodeScalars(t *testing.T) {
	buf := &fakeBuffer{
		fields: 4,
		values: [][]string{{"t", "42", "3.5", "hello"}, {"f", "-7", "-0.25", ""}},
	}
	cursor := newTestCursor(buf)

	require.True(t, cursor.Next())

	b, isNull, err := cursor.Bool(0)
	require.NoError(t, err)
	assert.True(t, b)
	assert.False(t, isNull)

	i, isNull, err := cursor.Int64(1)
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)
	assert.False(t, isNull)

	f, isNull, err := cursor.Float64(2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, f)
	assert.False(t, isNull)

	text, isNull, err := cursor.Text(3)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), text)
	assert.False(t, isNull)

	require.True(t, cursor.Next())

	b, _, err = cursor.Bool(0)
	require.NoError(t, err)
	assert.False(t, b)

	i, _, err = cursor.Int64(1)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), i)

	f, _, err = cursor.Float64(2)
	require.NoError(t, err)
	assert.Equal(t, -0.25, f)
}

func TestDecodeNullCell(t *testing.T) {
	// The cell carries stale text; the null marker is authoritative.
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"99"}},
		nulls:  [][]bool{{true}},
	}
	cursor := newTestCursor(buf)
	require.True(t, cursor.Next())

	_, isNull, err := cursor.Int64(0)
	require.NoError(t, err)
	assert.True(t, isNull)

	_, isNull, err = cursor.Bool(0)
	require.NoError(t, err)
	assert.True(t, isNull)

	_, isNull, err = cursor.Float64(0)
	require.NoError(t, err)
	assert.True(t, isNull)

	_, isNull, err = cursor.Text(0)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestTextEmptyVersusNull(t *testing.T) {
	buf := &fakeBuffer{
		fields: 2,
		values: [][]string{{"", ""}},
		nulls:  [][]bool{{false, true}},
	}
	cursor := newTestCursor(buf)
	require.True(t, cursor.Next())

	view, isNull, err := cursor.Text(0)
	require.NoError(t, err)
	assert.Len(t, view, 0)
	assert.False(t, isNull, "present empty string is not NULL")

	_, isNull, err = cursor.Text(1)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestDecodeUnparsableText(t *testing.T) {
	// Unparsable cells decode to the zero value with no error; only
	// the null flag signals absence.
	buf := &fakeBuffer{
		fields: 3,
		values: [][]string{{"maybe", "12abc", "1.2.3"}},
	}
	cursor := newTestCursor(buf)
	require.True(t, cursor.Next())

	b, isNull, err := cursor.Bool(0)
	require.NoError(t, err)
	assert.False(t, b)
	assert.False(t, isNull)

	i, isNull, err := cursor.Int64(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), i)
	assert.False(t, isNull)

	f, isNull, err := cursor.Float64(2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, f)
	assert.False(t, isNull)
}

func TestColumnIndexAtFieldCount(t *testing.T) {
	// Index equal to the field count is out of range. The historical
	// strict greater-than check admitted it; that off-by-one is fixed.
	buf := &fakeBuffer{
		fields: 2,
		values: [][]string{{"1", "2"}},
	}
	cursor := newTestCursor(buf)
	require.True(t, cursor.Next())

	_, _, err := cursor.Int64(1)
	require.NoError(t, err)

	_, _, err = cursor.Int64(2)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, InvalidColumnIndex))
	assert.True(t, errors.IsCode(err, Failure))

	_, _, err = cursor.Int64(-1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, InvalidColumnIndex))
}

func TestDecodeMemoizesFieldCount(t *testing.T) {
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"1"}},
	}
	cursor := newTestCursor(buf)
	require.True(t, cursor.Next())

	for i := 0; i < 5; i++ {
		_, _, err := cursor.Int64(0)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, buf.fieldCountCalls)
}

func TestDecodeBeforeNext(t *testing.T) {
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"1"}},
	}
	cursor := newTestCursor(buf)

	_, _, err := cursor.Int64(0)
	require.Error(t, err)
}

func TestHandleReleaseRunsOnce(t *testing.T) {
	released := 0
	handle := NewHandle(&fakeBuffer{fields: 1}, func() { released++ }, false, zerolog.Nop())

	shared := handle.Retain()
	assert.Same(t, handle, shared)

	handle.Release()
	assert.Equal(t, 0, released, "one owner left")

	handle.Release()
	assert.Equal(t, 1, released)

	// Further releases stay no-ops
	handle.Release()
	assert.Equal(t, 1, released)
}

func TestCursorClose(t *testing.T) {
	released := 0
	handle := NewHandle(&fakeBuffer{fields: 1}, func() { released++ }, false, zerolog.Nop())
	cursor := NewCursor(handle)

	require.NoError(t, cursor.Close())
	assert.Equal(t, 1, released)
}

func TestDebugTracing(t *testing.T) {
	buf := &fakeBuffer{
		fields: 1,
		values: [][]string{{"42"}},
	}

	var log bytes.Buffer
	handle := NewHandle(buf, nil, true, zerolog.New(&log))
	cursor := NewCursor(handle)

	require.True(t, cursor.Next())
	v, isNull, err := cursor.Int64(0)

	// Tracing is observability only
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)
	assert.False(t, isNull)

	// Every trace line names the handle
	assert.Contains(t, log.String(), handle.ID())
	assert.Contains(t, log.String(), "accessing next row")
	assert.Contains(t, log.String(), "binding integral result")
}
