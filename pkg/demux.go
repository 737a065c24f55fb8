package pact

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DemuxParams carries the sizing of one demultiplexing call. NumElements is
// both the number of output channels and the calibration divisor applied to
// every mean-subtracted trace.
type DemuxParams struct {
	NumExperiments  int
	TotFirings      int
	NumDaqChnsBoard int
	DataBlockSize   int
	NumElements     int
}

// BoardWords is the number of raw words one board must provide.
func (p DemuxParams) BoardWords() int {
	return p.NumExperiments * p.TotFirings * FiringWords(p.DataBlockSize)
}

// ChannelMapSize is the number of channel map entries shared by both boards.
func (p DemuxParams) ChannelMapSize() int {
	return NumBoards * p.TotFirings * p.NumDaqChnsBoard
}

func (p DemuxParams) ChndataSize() int {
	return p.NumElements * p.DataBlockSize
}

func (p DemuxParams) ChndataAllSize() int {
	return p.NumExperiments * p.NumElements * p.DataBlockSize
}

func (p DemuxParams) validate() error {
	if p.NumDaqChnsBoard != ChannelsPerFiring {
		return &SizeError{Name: "NumDaqChnsBoard", Want: ChannelsPerFiring, Got: p.NumDaqChnsBoard}
	}
	if p.TotFirings <= 0 {
		return fmt.Errorf("TotFirings must be positive, got %d: %w", p.TotFirings, ErrSizeMismatch)
	}
	if p.DataBlockSize <= 0 {
		return fmt.Errorf("DataBlockSize must be positive, got %d: %w", p.DataBlockSize, ErrSizeMismatch)
	}
	if p.NumElements <= 0 {
		return fmt.Errorf("NumElements must be positive, got %d: %w", p.NumElements, ErrSizeMismatch)
	}
	if p.NumExperiments < 0 {
		return fmt.Errorf("NumExperiments must not be negative, got %d: %w", p.NumExperiments, ErrSizeMismatch)
	}
	return nil
}

// Demux unpacks the raw words of both boards, removes each trace's mean,
// divides by NumElements and routes the result through chanMap.
//
// chndata ([NumElements][DataBlockSize], row-major) accumulates the traces of
// every experiment and board. chndataAll ([NumExperiments][NumElements][DataBlockSize])
// receives the negated trace of each experiment, last write wins when two
// inputs map to the same output channel. Averaging over experiments is left
// to the caller (see Average).
//
// All sizes and channel map entries are checked before anything is written,
// so on error both outputs are left as they were.
func Demux(boards [NumBoards][]uint32, chanMap ChannelMap, p DemuxParams, chndata, chndataAll []float64) error {
	if err := p.validate(); err != nil {
		return err
	}
	for b, words := range boards {
		if len(words) < p.BoardWords() {
			return &SizeError{Name: fmt.Sprintf("board %d words", b), Want: p.BoardWords(), Got: len(words)}
		}
	}
	if err := chanMap.Validate(p); err != nil {
		return err
	}
	accumulator, err := NewView("chndata", chndata, RowMajor, p.NumElements, p.DataBlockSize)
	if err != nil {
		return err
	}
	snapshots, err := NewView("chndata_all", chndataAll, RowMajor, p.NumExperiments, p.NumElements, p.DataBlockSize)
	if err != nil {
		return err
	}

	scratch := NewRawTrace(p.TotFirings, p.NumDaqChnsBoard, p.DataBlockSize)
	firingWords := FiringWords(p.DataBlockSize)
	numElements := float64(p.NumElements)

	for b, words := range boards {
		chanOffset := b * p.TotFirings * p.NumDaqChnsBoard
		// counter walks word groups across every experiment and firing of a board
		counter := 0
		for n := 0; n < p.NumExperiments; n++ {
			scratch.Reset()
			for f := 0; f < p.TotFirings; f++ {
				start := counter * GroupWords(p.DataBlockSize)
				unpackFiring(words[start:start+firingWords], p.DataBlockSize, scratch, f)
				counter += GroupsPerFiring
			}

			for chanindex := 0; chanindex < p.NumDaqChnsBoard; chanindex++ {
				for firingindex := 0; firingindex < p.TotFirings; firingindex++ {
					trace := scratch.Trace(firingindex, chanindex)
					normalizeTrace(trace, numElements)

					channel := chanMap[chanindex*p.TotFirings+firingindex+chanOffset] - 1
					sum, err := accumulator.Row(channel)
					if err != nil {
						return err
					}
					snapshot, err := snapshots.Row(n, channel)
					if err != nil {
						return err
					}
					floats.Add(sum, trace)
					floats.ScaleTo(snapshot, -1, trace)
				}
			}
		}
	}
	return nil
}

// normalizeTrace subtracts the trace mean and divides by numElements, in place.
func normalizeTrace(trace []float64, numElements float64) {
	mean := stat.Mean(trace, nil)
	for i, v := range trace {
		trace[i] = (v - mean) / numElements
	}
}
