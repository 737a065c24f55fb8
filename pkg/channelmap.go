package pact

import "fmt"

// ChannelMap routes (board, local channel, firing) to a 1-based output
// channel. Entry chanindex*TotFirings + firing + board*TotFirings*NumDaqChnsBoard
// holds the output channel of that triple.
type ChannelMap []int

// Position returns the index of the (board, chanindex, firing) entry.
func (m ChannelMap) Position(board, chanindex, firing int, p DemuxParams) int {
	return chanindex*p.TotFirings + firing + board*p.TotFirings*p.NumDaqChnsBoard
}

// Validate checks that the map covers both boards and that every entry the
// kernel reads lies in [1, NumElements].
func (m ChannelMap) Validate(p DemuxParams) error {
	if len(m) < p.ChannelMapSize() {
		return &SizeError{Name: "channel map entries", Want: p.ChannelMapSize(), Got: len(m)}
	}
	for k, v := range m[:p.ChannelMapSize()] {
		if v < 1 || v > p.NumElements {
			return &IndexError{Table: "ChanMap", Position: k, Value: v - 1, Limit: p.NumElements}
		}
	}
	return nil
}

// DefaultChannelMap routes board b, firing f, local channel c to output
// channel b*TotFirings*NumDaqChnsBoard + f*NumDaqChnsBoard + c + 1, a
// bijection onto the first ChannelMapSize output channels.
func DefaultChannelMap(p DemuxParams) ChannelMap {
	m := make(ChannelMap, p.ChannelMapSize())
	for b := 0; b < NumBoards; b++ {
		for c := 0; c < p.NumDaqChnsBoard; c++ {
			for f := 0; f < p.TotFirings; f++ {
				m[m.Position(b, c, f, p)] = b*p.TotFirings*p.NumDaqChnsBoard + f*p.NumDaqChnsBoard + c + 1
			}
		}
	}
	return m
}

// ChannelMapFromFloats converts a host matrix of channel numbers. Every value
// must be integral.
func ChannelMapFromFloats(values []float64) (ChannelMap, error) {
	m := make(ChannelMap, len(values))
	for k, v := range values {
		if v != float64(int(v)) {
			return nil, &ArrayError{Name: "ChanMap", Reason: fmt.Sprintf("entry %d is not integral: %g", k, v)}
		}
		m[k] = int(v)
	}
	return m, nil
}
