package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecodeWordFields(t *testing.T) {
	low, mid, high := DecodeWord(0x3FF | 0x155<<10 | 0x2AA<<20 | 0x3<<30)
	assert.Equal(t, uint16(0x3FF), low)
	assert.Equal(t, uint16(0x155), mid)
	assert.Equal(t, uint16(0x2AA), high)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		low := rapid.Uint16Range(0, fieldMask).Draw(t, "low")
		mid := rapid.Uint16Range(0, fieldMask).Draw(t, "mid")
		high := rapid.Uint16Range(0, fieldMask).Draw(t, "high")

		gotLow, gotMid, gotHigh := DecodeWord(EncodeWord(low, mid, high))
		assert.Equal(t, low, gotLow)
		assert.Equal(t, mid, gotMid)
		assert.Equal(t, high, gotHigh)
	})
}

func TestDecodeIgnoresTopBits(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.Uint32().Draw(t, "word")
		assert.Equal(t, w&0x3FFFFFFF, EncodeWord(DecodeWord(w)))
	})
}

func TestGroupLayout(t *testing.T) {
	total := 0
	for i := 0; i < GroupsPerFiring; i++ {
		total += groupChannels(i)
	}
	assert.Equal(t, ChannelsPerFiring, total)
	assert.False(t, groupHasHigh(2))
	assert.False(t, groupHasHigh(5))
	assert.Equal(t, 2600, GroupWords(1300))
	assert.Equal(t, 15600, FiringWords(1300))
}

func TestUnpackFiringChannelOrder(t *testing.T) {
	const dbs = 3
	values := func(c, j int) uint16 { return uint16(c*10 + j) }
	words := packFiring(values, dbs, 0)

	trace := NewRawTrace(1, ChannelsPerFiring, dbs)
	unpackFiring(words, dbs, trace, 0)
	for c := 0; c < ChannelsPerFiring; c++ {
		assert.Equal(t, []float64{float64(c * 10), float64(c*10 + 1), float64(c*10 + 2)}, trace.Trace(0, c), "channel %d", c)
	}

	// group 0 word 0: channel 0 low, channel 2 mid, channel 4 high
	low, mid, high := DecodeWord(words[0])
	assert.Equal(t, []uint16{0, 20, 40}, []uint16{low, mid, high})
}

func TestUnpackFiringSkipsHighFieldOfShortGroups(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dbs := rapid.IntRange(1, 8).Draw(t, "dataBlockSize")
		samples := rapid.SliceOfN(rapid.Uint16Range(0, fieldMask), ChannelsPerFiring*dbs, ChannelsPerFiring*dbs).Draw(t, "samples")
		filler := rapid.Uint16Range(0, fieldMask).Draw(t, "filler")
		values := func(c, j int) uint16 { return samples[c*dbs+j] }

		clean := NewRawTrace(1, ChannelsPerFiring, dbs)
		unpackFiring(packFiring(values, dbs, 0), dbs, clean, 0)
		noisy := NewRawTrace(1, ChannelsPerFiring, dbs)
		unpackFiring(packFiring(values, dbs, filler), dbs, noisy, 0)

		require.Equal(t, clean.data, noisy.data)
	})
}
