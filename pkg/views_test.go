package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewOffsets(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5}

	rows, err := NewView("rows", data, RowMajor, 2, 3)
	require.NoError(t, err)
	v, err := rows.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	cols, err := NewView("cols", data, ColumnMajor, 2, 3)
	require.NoError(t, err)
	v, err = cols.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = cols.At(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestViewRow(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	rows, err := NewView("rows", data, RowMajor, 2, 2, 3)
	require.NoError(t, err)
	row, err := rows.Row(1, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7, 8}, row)

	cols, err := NewView("cols", data, ColumnMajor, 3, 4)
	require.NoError(t, err)
	col, err := cols.Row(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7, 8}, col)

	// rows share the backing buffer
	row[0] = -1
	assert.Equal(t, -1.0, data[6])
}

func TestViewErrors(t *testing.T) {
	_, err := NewView("short", make([]float64, 5), RowMajor, 2, 3)
	assert.ErrorIs(t, err, ErrSizeMismatch)

	_, err = NewView("negative", nil, RowMajor, -1, 3)
	assert.ErrorIs(t, err, ErrInvalidArray)

	v, err := NewView("v", make([]float64, 6), RowMajor, 2, 3)
	require.NoError(t, err)

	_, err = v.At(2, 0)
	var indexErr *IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, 0, indexErr.Position)
	assert.Equal(t, 2, indexErr.Limit)

	_, err = v.At(0)
	assert.ErrorIs(t, err, ErrInvalidArray)
	_, err = v.Row(0, 0)
	assert.ErrorIs(t, err, ErrInvalidArray)
}

func TestRawTrace(t *testing.T) {
	r := NewRawTrace(2, 3, 4)
	trace := r.Trace(1, 2)
	require.Len(t, trace, 4)
	trace[3] = 5
	assert.Equal(t, 5.0, r.data[len(r.data)-1])

	r.Reset()
	assert.Equal(t, 0.0, r.Trace(1, 2)[3])

	assert.Panics(t, func() { r.Trace(2, 0) })
	assert.Panics(t, func() { r.Trace(0, -1) })
}
