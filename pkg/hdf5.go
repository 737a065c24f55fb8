package pact

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type ChannelMappingHDF5 struct {
	board      int32
	daqChannel int32
	firing     int32
	element    int32
}

type RunInfoHDF5 struct {
	index          int32
	numExperiments int32
}

const maxChunkRows = 64

func openFile(fname string) (*hdf5.File, error) {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &ErrOpenFile{Filename: fname, Err: err}
	}
	return f, nil
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

// chunkShape keeps whole traces (the last dimension) together and caps the
// rows per chunk.
func chunkShape(dims []uint) []uint {
	chunks := make([]uint, len(dims))
	for i := range dims {
		chunks[i] = 1
	}
	last := len(dims) - 1
	chunks[last] = dims[last]
	if last > 0 {
		chunks[last-1] = min(dims[last-1], maxChunkRows)
	}
	return chunks
}

func datasetCreateProps(dims []uint, maxDims []uint) (*hdf5.PropList, error) {
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, err
	}
	chunkDims := dims
	if maxDims != nil {
		chunkDims = maxDims
	}
	for _, d := range chunkDims {
		// zero-sized fixed datasets cannot be chunked
		if d == 0 {
			return plist, nil
		}
	}
	if err := plist.SetChunk(chunkShape(chunkDims)); err != nil {
		plist.Close()
		return nil, err
	}
	if err := plist.SetDeflate(configuration.CompressionLevel); err != nil {
		plist.Close()
		return nil, err
	}
	return plist, nil
}

func createArray(group *hdf5.Group, name string, dtype *hdf5.Datatype, dims []uint, maxDims []uint) (*hdf5.Dataset, error) {
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := datasetCreateProps(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer plist.Close()

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	return dset, nil
}

// createExtendable3dArray creates a [0, rows, samples] dataset that grows
// along the first axis, one slab per experiment.
func createExtendable3dArray(group *hdf5.Group, name string, rows int, samples int) (*hdf5.Dataset, error) {
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	dims := []uint{0, uint(rows), uint(samples)}
	maxDims := []uint{uint(unlimitedDims), uint(rows), uint(samples)}
	chunkDims := []uint{1, uint(rows), uint(samples)}

	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := datasetCreateProps(chunkDims, nil)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer plist.Close()

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	return dset, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := datasetCreateProps([]uint{1024}, nil)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	defer plist.Close()

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateDataset{DatasetName: name, Err: err}
	}
	return dset, nil
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, rowCounter int) error {
	length := uint(len(*data))
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	// extend
	rowsInFile := uint(rowCounter)
	newsize := []uint{rowsInFile + length}
	if err := dataset.Resize(newsize); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}
	return dataset.WriteSubset(data, dataspace, filespace)
}

// write3dSlab appends one [rows, samples] slab at position slab.
func write3dSlab(dataset *hdf5.Dataset, data *[]float64, slab int, rows int, samples int) error {
	// extend
	newsize := []uint{uint(slab) + 1, uint(rows), uint(samples)}
	if err := dataset.Resize(newsize); err != nil {
		return err
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{uint(slab), 0, 0}
	count := []uint{1, uint(rows), uint(samples)}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return err
	}

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		return err
	}
	defer dataspace.Close()

	return dataset.WriteSubset(data, dataspace, filespace)
}

func readFloat64Dataset(file *hdf5.File, name string) ([]float64, []uint, error) {
	dset, err := file.OpenDataset(name)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening dataset %q: %w", name, err)
	}
	defer dset.Close()
	dims, err := datasetDims(dset)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	data := make([]float64, product(dims))
	if len(data) > 0 {
		if err := dset.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("error reading dataset %q: %w", name, err)
		}
	}
	return data, dims, nil
}

func readUint64Dataset(file *hdf5.File, name string) ([]uint64, []uint, error) {
	dset, err := file.OpenDataset(name)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening dataset %q: %w", name, err)
	}
	defer dset.Close()
	dims, err := datasetDims(dset)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	data := make([]uint64, product(dims))
	if len(data) > 0 {
		if err := dset.Read(&data); err != nil {
			return nil, nil, fmt.Errorf("error reading dataset %q: %w", name, err)
		}
	}
	return data, dims, nil
}

func datasetDims(dset *hdf5.Dataset) ([]uint, error) {
	space := dset.Space()
	defer space.Close()
	dims, _, err := space.SimpleExtentDims()
	return dims, err
}

func product(dims []uint) int {
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return n
}
