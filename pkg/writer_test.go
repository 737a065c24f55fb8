package pact

import (
	"path/filepath"
	"testing"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterChannelDataRoundTrip(t *testing.T) {
	p := DemuxParams{NumExperiments: 2, TotFirings: 1, NumDaqChnsBoard: ChannelsPerFiring, DataBlockSize: 3, NumElements: 64}
	chndata := make([]float64, p.ChndataSize())
	chndataAll := make([]float64, p.ChndataAllSize())
	for k := range chndata {
		chndata[k] = float64(k) / 4
	}
	for k := range chndataAll {
		chndataAll[k] = -float64(k)
	}

	filename := filepath.Join(t.TempDir(), "chndata_1.h5")
	writer, err := NewWriter(filename)
	require.NoError(t, err)
	require.NoError(t, writer.WriteRunInfo(1, DefaultChannelMap(p), p))
	require.NoError(t, writer.WriteChannelData(chndata, chndataAll, p))
	require.NoError(t, writer.Close())
	assert.Equal(t, 2, writer.ExpCounter)

	got, numElements, dataBlockSize, err := ReadChannelData(filename)
	require.NoError(t, err)
	assert.Equal(t, p.NumElements, numElements)
	assert.Equal(t, p.DataBlockSize, dataBlockSize)
	assert.Equal(t, chndata, got)

	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer f.Close()
	all, dims, err := readFloat64Dataset(f, "RD/chndata_all")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 64, 3}, dims)
	assert.Equal(t, chndataAll, all)
	assert.True(t, f.LinkExists("Run"))
	assert.False(t, f.LinkExists("Recon"))
}

func TestWriterImage(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "pa_img_1.h5")
	writer, err := NewWriter(filename)
	require.NoError(t, err)
	require.NoError(t, writer.WriteImage([]float64{1, 2, 3, 4, 5, 6}, 3, 2))
	require.NoError(t, writer.Close())

	f, err := hdf5.OpenFile(filename, hdf5.F_ACC_RDONLY)
	require.NoError(t, err)
	defer f.Close()
	img, dims, err := readFloat64Dataset(f, "Recon/pa_img")
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, dims)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, img)
	assert.False(t, f.LinkExists("Run"), "image files carry no run tables")
	assert.False(t, f.LinkExists("RD"), "image files carry no channel data")
}

func TestReadChannelDataMissingFile(t *testing.T) {
	_, _, _, err := ReadChannelData(filepath.Join(t.TempDir(), "missing.h5"))
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)
}

// writeIndexTable stores idxAll and angularWeight as [nSteps][nPixelY][nPixelX].
func writeIndexTable(t *testing.T, filename string, idxAll []uint64, weights []float64, p ReconParams) {
	t.Helper()
	f, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	require.NoError(t, err)
	defer f.Close()

	dims := []uint{uint(p.NSteps), uint(p.NPixelY), uint(p.NPixelX)}
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	require.NoError(t, err)
	defer space.Close()

	idxSet, err := f.CreateDataset("idxAll", hdf5.T_NATIVE_UINT64, space)
	require.NoError(t, err)
	defer idxSet.Close()
	require.NoError(t, idxSet.Write(&idxAll))

	weightSet, err := f.CreateDataset("angularWeight", hdf5.T_NATIVE_DOUBLE, space)
	require.NoError(t, err)
	defer weightSet.Close()
	require.NoError(t, weightSet.Write(&weights))
}

func TestReadIndexTable(t *testing.T) {
	p := ReconParams{NPixelX: 3, NPixelY: 2, NSteps: 2}
	idxAll := []uint64{1, 2, 3, 4, 5, 6, 6, 5, 4, 3, 2, 1}
	weights := []float64{1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2}
	filename := filepath.Join(t.TempDir(), "index_table.h5")
	writeIndexTable(t, filename, idxAll, weights, p)

	gotIdx, gotWeights, gotParams, err := ReadIndexTable(filename)
	require.NoError(t, err)
	assert.Equal(t, idxAll, gotIdx)
	assert.Equal(t, weights, gotWeights)
	assert.Equal(t, p, gotParams)
}
