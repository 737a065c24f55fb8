package pact

import "fmt"

// IndexBias is added to every step's base offset into the time-series
// buffer. Index tables hold 1-based sample numbers within a step's trace, so
// entry v of step s reads paData[NTimeSamples*s + v - 1].
const IndexBias = -1

type ReconParams struct {
	NPixelX      int
	NPixelY      int
	NSteps       int
	NTimeSamples int
}

func (p ReconParams) TableSize() int {
	return p.NSteps * p.NPixelY * p.NPixelX
}

func (p ReconParams) ImageSize() int {
	return p.NPixelX * p.NPixelY
}

// stepSkip is the base offset into paData of step iStep.
func (p ReconParams) stepSkip(iStep int) int {
	return p.NTimeSamples*iStep + IndexBias
}

func (p ReconParams) validate() error {
	if p.NPixelX < 0 || p.NPixelY < 0 || p.NSteps < 0 || p.NTimeSamples < 0 {
		return fmt.Errorf("negative reconstruction size %+v: %w", p, ErrSizeMismatch)
	}
	return nil
}

// BackProject accumulates angularWeight-weighted samples of paData into
// paImg. The table is walked step by step, rows (y) outside and columns (x)
// inside, and paImg is written in that same scan order.
//
// Every table entry is resolved against paData before the first write, so an
// out-of-range entry returns an *IndexError and leaves paImg untouched.
func BackProject(paData []float64, idxAll []uint64, angularWeight []float64, p ReconParams, paImg []float64) error {
	if err := p.validate(); err != nil {
		return err
	}
	if len(idxAll) != p.TableSize() {
		return &SizeError{Name: "idxAll entries", Want: p.TableSize(), Got: len(idxAll)}
	}
	if len(angularWeight) != p.TableSize() {
		return &SizeError{Name: "angularWeight entries", Want: p.TableSize(), Got: len(angularWeight)}
	}
	if len(paImg) < p.ImageSize() {
		return &SizeError{Name: "pa_img capacity", Want: p.ImageSize(), Got: len(paImg)}
	}
	if err := checkIndexTable(paData, idxAll, p); err != nil {
		return err
	}

	icount := 0
	for iStep := 0; iStep < p.NSteps; iStep++ {
		pcount := 0
		iskip := p.stepSkip(iStep)
		for y := 0; y < p.NPixelY; y++ {
			for x := 0; x < p.NPixelX; x++ {
				paImg[pcount] += paData[int(idxAll[icount])+iskip] * angularWeight[icount]
				pcount++
				icount++
			}
		}
	}
	return nil
}

func checkIndexTable(paData []float64, idxAll []uint64, p ReconParams) error {
	planeSize := p.ImageSize()
	for k, v := range idxAll {
		if v > uint64(len(paData)) {
			return &IndexError{Table: "idxAll", Position: k, Value: int(min(v, uint64(1<<62))), Limit: len(paData)}
		}
		effective := int(v) + p.stepSkip(k/planeSize)
		if effective < 0 || effective >= len(paData) {
			return &IndexError{Table: "idxAll", Position: k, Value: effective, Limit: len(paData)}
		}
	}
	return nil
}
