package pact

// Each firing of a board is packed into 6 groups. A group is a run of
// 2*DataBlockSize words: for every sample position j, words 2j and 2j+1 carry
// up to three 10-bit fields each (bits 0-9, 10-19, 20-29). Groups 2 and 5 only
// populate the low and mid fields, so a firing yields 4*6 + 2*4 = 32 channels.
const (
	NumBoards         = 2
	GroupsPerFiring   = 6
	ChannelsPerFiring = 32
	WordsPerSample    = 2

	fieldBits = 10
	fieldMask = 0x3FF
)

// DecodeWord splits a raw word into its low, mid and high 10-bit fields.
func DecodeWord(w uint32) (low, mid, high uint16) {
	low = uint16(w & fieldMask)
	mid = uint16((w >> fieldBits) & fieldMask)
	high = uint16((w >> (2 * fieldBits)) & fieldMask)
	return low, mid, high
}

// EncodeWord is the inverse of DecodeWord. Values wider than 10 bits are
// truncated.
func EncodeWord(low, mid, high uint16) uint32 {
	return uint32(high&fieldMask)<<(2*fieldBits) |
		uint32(mid&fieldMask)<<fieldBits |
		uint32(low&fieldMask)
}

// groupHasHigh reports whether group i carries the bits 20-29 field.
func groupHasHigh(i int) bool {
	return i != 2 && i != 5
}

// groupChannels is the number of channel slots group i fills.
func groupChannels(i int) int {
	if groupHasHigh(i) {
		return 6
	}
	return 4
}

// GroupWords returns the number of raw words one group occupies.
func GroupWords(dataBlockSize int) int {
	return WordsPerSample * dataBlockSize
}

// FiringWords returns the number of raw words one firing occupies.
func FiringWords(dataBlockSize int) int {
	return GroupsPerFiring * GroupWords(dataBlockSize)
}

// unpackFiring decodes the 6 groups of one firing into trace, the
// ChannelsPerFiring x dataBlockSize slab of a RawTrace. words must start at
// the first word of group 0. Channel slots of the high field of groups 2 and 5
// are never written.
func unpackFiring(words []uint32, dataBlockSize int, trace *RawTrace, firing int) {
	groupWords := GroupWords(dataBlockSize)
	channel := 0
	for i := 0; i < GroupsPerFiring; i++ {
		group := words[i*groupWords : (i+1)*groupWords]
		c0 := trace.Trace(firing, channel)
		c1 := trace.Trace(firing, channel+1)
		c2 := trace.Trace(firing, channel+2)
		c3 := trace.Trace(firing, channel+3)
		var c4, c5 []float64
		if groupHasHigh(i) {
			c4 = trace.Trace(firing, channel+4)
			c5 = trace.Trace(firing, channel+5)
		}
		for j := 0; j < dataBlockSize; j++ {
			low0, mid0, high0 := DecodeWord(group[j*WordsPerSample])
			low1, mid1, high1 := DecodeWord(group[j*WordsPerSample+1])
			c0[j] = float64(low0)
			c1[j] = float64(low1)
			c2[j] = float64(mid0)
			c3[j] = float64(mid1)
			if c4 != nil {
				c4[j] = float64(high0)
				c5[j] = float64(high1)
			}
		}
		channel += groupChannels(i)
	}
}
