package pact

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"
)

// Average turns the accumulated channel data into the per-experiment mean
// with the acquisition sign restored: chndata = -chndata/numExperiments.
func Average(chndata []float64, numExperiments int) error {
	if numExperiments <= 0 {
		return fmt.Errorf("cannot average over %d experiments: %w", numExperiments, ErrSizeMismatch)
	}
	floats.Scale(-1/float64(numExperiments), chndata)
	return nil
}

// FixBadChannels flips the sign of the given 1-based channels in chndata
// and in every experiment of chndataAll. Those elements are wired with
// inverted polarity.
func FixBadChannels(chndata, chndataAll []float64, badChannels []int, p DemuxParams) error {
	accumulator, err := NewView("chndata", chndata, RowMajor, p.NumElements, p.DataBlockSize)
	if err != nil {
		return err
	}
	snapshots, err := NewView("chndata_all", chndataAll, RowMajor, p.NumExperiments, p.NumElements, p.DataBlockSize)
	if err != nil {
		return err
	}
	for k, bad := range badChannels {
		if bad < 1 || bad > p.NumElements {
			return &IndexError{Table: "BadChannels", Position: k, Value: bad - 1, Limit: p.NumElements}
		}
	}
	// a channel listed twice is still flipped once
	channels := slices.Clone(badChannels)
	slices.Sort(channels)
	channels = slices.Compact(channels)

	for _, bad := range channels {
		channel := bad - 1
		row, err := accumulator.Row(channel)
		if err != nil {
			return err
		}
		floats.Scale(-1, row)
		for n := 0; n < p.NumExperiments; n++ {
			row, err := snapshots.Row(n, channel)
			if err != nil {
				return err
			}
			floats.Scale(-1, row)
		}
	}
	return nil
}
