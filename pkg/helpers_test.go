package pact

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// sampleFunc gives the 10-bit sample j of local channel c.
type sampleFunc func(channel, sample int) uint16

// packFiring is the inverse of unpackFiring. The unused high fields of
// groups 2 and 5 are filled with filler.
func packFiring(values sampleFunc, dataBlockSize int, filler uint16) []uint32 {
	groupWords := GroupWords(dataBlockSize)
	words := make([]uint32, FiringWords(dataBlockSize))
	channel := 0
	for i := 0; i < GroupsPerFiring; i++ {
		group := words[i*groupWords : (i+1)*groupWords]
		for j := 0; j < dataBlockSize; j++ {
			high0, high1 := filler, filler
			if groupHasHigh(i) {
				high0, high1 = values(channel+4, j), values(channel+5, j)
			}
			group[2*j] = EncodeWord(values(channel, j), values(channel+2, j), high0)
			group[2*j+1] = EncodeWord(values(channel+1, j), values(channel+3, j), high1)
		}
		channel += groupChannels(i)
	}
	return words
}

// boardSampleFunc gives sample j of local channel c in firing f of experiment n.
type boardSampleFunc func(experiment, firing, channel, sample int) uint16

func packBoard(values boardSampleFunc, p DemuxParams, filler uint16) []uint32 {
	words := make([]uint32, 0, p.BoardWords())
	for n := 0; n < p.NumExperiments; n++ {
		for f := 0; f < p.TotFirings; f++ {
			firing := packFiring(func(c, j int) uint16 { return values(n, f, c, j) }, p.DataBlockSize, filler)
			words = append(words, firing...)
		}
	}
	return words
}

// referenceDemux computes the expected outputs trace by trace, following
// the board, experiment, channel, firing order.
func referenceDemux(boards [NumBoards]boardSampleFunc, chanMap ChannelMap, p DemuxParams) ([]float64, []float64) {
	chndata := make([]float64, p.ChndataSize())
	chndataAll := make([]float64, p.ChndataAllSize())
	for b := 0; b < NumBoards; b++ {
		for n := 0; n < p.NumExperiments; n++ {
			for c := 0; c < p.NumDaqChnsBoard; c++ {
				for f := 0; f < p.TotFirings; f++ {
					mean := 0.0
					for j := 0; j < p.DataBlockSize; j++ {
						mean += float64(boards[b](n, f, c, j))
					}
					mean /= float64(p.DataBlockSize)
					channel := chanMap[chanMap.Position(b, c, f, p)] - 1
					for j := 0; j < p.DataBlockSize; j++ {
						v := (float64(boards[b](n, f, c, j)) - mean) / float64(p.NumElements)
						chndata[channel*p.DataBlockSize+j] += v
						chndataAll[(n*p.NumElements+channel)*p.DataBlockSize+j] = -v
					}
				}
			}
		}
	}
	return chndata, chndataAll
}

func diffApprox(want, got []float64) string {
	return cmp.Diff(want, got, approx)
}
