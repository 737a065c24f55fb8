package pact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImagePlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "pa_img.png")
	img := []float64{0, 1, 2, 3, 4, 5}

	require.NoError(t, SaveImagePlot(img, 3, 2, "test image", path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSaveImagePlotFlatImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.png")
	require.NoError(t, SaveImagePlot([]float64{2, 2, 2, 2}, 2, 2, "flat", path))
	assert.FileExists(t, path)
}

func TestSaveImagePlotErrors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, SaveImagePlot([]float64{1, 2}, 2, 2, "short", filepath.Join(dir, "a.png")), ErrSizeMismatch)
	assert.ErrorIs(t, SaveImagePlot(nil, 0, 2, "empty", filepath.Join(dir, "b.png")), ErrSizeMismatch)
}

func TestImageGridScanOrder(t *testing.T) {
	g := imageGrid{data: []float64{0, 1, 2, 3, 4, 5}, nPixelX: 3, nPixelY: 2}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 5.0, g.Z(2, 1))
	assert.Equal(t, 1.0, g.Z(1, 0))
}
