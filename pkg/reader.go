package pact

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"golang.org/x/exp/slices"
)

// ReadChannelData loads RD/chndata as written by WriteChannelData and
// returns it with its [NumElements, DataBlockSize] shape.
func ReadChannelData(filename string) ([]float64, int, int, error) {
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, 0, 0, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	data, dims, err := readFloat64Dataset(f, "RD/chndata")
	if err != nil {
		return nil, 0, 0, err
	}
	if len(dims) != 2 {
		return nil, 0, 0, &ArrayError{Name: "RD/chndata", Reason: fmt.Sprintf("rank %d, want 2", len(dims))}
	}
	return data, int(dims[0]), int(dims[1]), nil
}

// ReadIndexTable loads the back-projection table produced by the index map
// generator: idxAll (uint64) and angularWeight (float64), both
// [nSteps][nPixelY][nPixelX].
func ReadIndexTable(filename string) ([]uint64, []float64, ReconParams, error) {
	var p ReconParams
	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, nil, p, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer f.Close()

	idxAll, idxDims, err := readUint64Dataset(f, "idxAll")
	if err != nil {
		return nil, nil, p, err
	}
	weights, weightDims, err := readFloat64Dataset(f, "angularWeight")
	if err != nil {
		return nil, nil, p, err
	}
	if len(idxDims) != 3 {
		return nil, nil, p, &ArrayError{Name: "idxAll", Reason: fmt.Sprintf("rank %d, want 3", len(idxDims))}
	}
	if !slices.Equal(idxDims, weightDims) {
		return nil, nil, p, &ArrayError{Name: "angularWeight", Reason: fmt.Sprintf("shape %v differs from idxAll %v", weightDims, idxDims)}
	}
	p.NSteps = int(idxDims[0])
	p.NPixelY = int(idxDims[1])
	p.NPixelX = int(idxDims[2])
	return idxAll, weights, p, nil
}
