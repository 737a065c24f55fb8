package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestDefaultChannelMapIsBijection(t *testing.T) {
	p := smallParams(1, 8, 4)
	m := DefaultChannelMap(p)
	require.Len(t, m, p.ChannelMapSize())
	require.NoError(t, m.Validate(p))

	sorted := slices.Clone([]int(m))
	slices.Sort(sorted)
	for k, v := range sorted {
		require.Equal(t, k+1, v)
	}

	assert.Equal(t, 1, m[m.Position(0, 0, 0, p)])
	assert.Equal(t, 33, m[m.Position(0, 0, 1, p)])
	assert.Equal(t, 2, m[m.Position(0, 1, 0, p)])
	assert.Equal(t, 8*32+1, m[m.Position(1, 0, 0, p)])
}

func TestChannelMapValidate(t *testing.T) {
	p := smallParams(1, 1, 4)
	m := DefaultChannelMap(p)

	var sizeErr *SizeError
	require.ErrorAs(t, m[:10].Validate(p), &sizeErr)
	assert.Equal(t, p.ChannelMapSize(), sizeErr.Want)

	bad := slices.Clone(m)
	bad[7] = p.NumElements + 1
	var indexErr *IndexError
	require.ErrorAs(t, bad.Validate(p), &indexErr)
	assert.Equal(t, "ChanMap", indexErr.Table)
	assert.Equal(t, 7, indexErr.Position)
	assert.Equal(t, p.NumElements, indexErr.Value)

	bad[7] = -3
	assert.ErrorIs(t, bad.Validate(p), ErrInvalidIndexTable)

	// entries past the used prefix are not read
	long := append(slices.Clone(m), 0)
	assert.NoError(t, long.Validate(p))
}

func TestChannelMapFromFloats(t *testing.T) {
	m, err := ChannelMapFromFloats([]float64{1, 2, 64})
	require.NoError(t, err)
	assert.Equal(t, ChannelMap{1, 2, 64}, m)

	_, err = ChannelMapFromFloats([]float64{1, 2.5})
	assert.ErrorIs(t, err, ErrInvalidArray)
}
