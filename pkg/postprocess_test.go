package pact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage(t *testing.T) {
	chndata := []float64{4, -8, 0}
	require.NoError(t, Average(chndata, 4))
	assert.Equal(t, []float64{-1, 2, 0}, chndata)

	assert.ErrorIs(t, Average(chndata, 0), ErrSizeMismatch)
	assert.Equal(t, []float64{-1, 2, 0}, chndata)
}

func postprocessData() (DemuxParams, []float64, []float64) {
	p := DemuxParams{NumExperiments: 2, TotFirings: 1, NumDaqChnsBoard: ChannelsPerFiring, DataBlockSize: 2, NumElements: 3}
	chndata := []float64{1, 1, 2, 2, 3, 3}
	chndataAll := []float64{
		1, 1, 2, 2, 3, 3,
		10, 10, 20, 20, 30, 30,
	}
	return p, chndata, chndataAll
}

func TestFixBadChannels(t *testing.T) {
	p, chndata, chndataAll := postprocessData()

	require.NoError(t, FixBadChannels(chndata, chndataAll, []int{3, 1, 3}, p))
	assert.Equal(t, []float64{-1, -1, 2, 2, -3, -3}, chndata)
	assert.Equal(t, []float64{
		-1, -1, 2, 2, -3, -3,
		-10, -10, 20, 20, -30, -30,
	}, chndataAll)
}

func TestFixBadChannelsRejectsBeforeWriting(t *testing.T) {
	p, chndata, chndataAll := postprocessData()
	_, wantChndata, wantAll := postprocessData()

	err := FixBadChannels(chndata, chndataAll, []int{1, 4}, p)
	var indexErr *IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, "BadChannels", indexErr.Table)
	assert.Equal(t, 1, indexErr.Position)
	assert.Equal(t, wantChndata, chndata)
	assert.Equal(t, wantAll, chndataAll)

	assert.ErrorIs(t, FixBadChannels(chndata, chndataAll, []int{0}, p), ErrInvalidIndexTable)
	assert.ErrorIs(t, FixBadChannels(chndata[:3], chndataAll, nil, p), ErrSizeMismatch)
}
