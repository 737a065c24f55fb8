package pact

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// imageGrid exposes a scan-order image (x fastest) as a plotter.GridXYZ.
type imageGrid struct {
	data    []float64
	nPixelX int
	nPixelY int
}

func (g imageGrid) Dims() (c, r int)   { return g.nPixelX, g.nPixelY }
func (g imageGrid) Z(c, r int) float64 { return g.data[r*g.nPixelX+c] }
func (g imageGrid) X(c int) float64    { return float64(c) }
func (g imageGrid) Y(r int) float64    { return float64(r) }

// SaveImagePlot renders a reconstructed image as a heat map. The format
// follows the extension of path (png, svg, pdf).
func SaveImagePlot(paImg []float64, nPixelX int, nPixelY int, title string, path string) error {
	if nPixelX <= 0 || nPixelY <= 0 {
		return fmt.Errorf("cannot plot a %dx%d image: %w", nPixelX, nPixelY, ErrSizeMismatch)
	}
	if len(paImg) < nPixelX*nPixelY {
		return &SizeError{Name: "pa_img", Want: nPixelX * nPixelY, Got: len(paImg)}
	}
	grid := imageGrid{data: paImg[:nPixelX*nPixelY], nPixelX: nPixelX, nPixelY: nPixelY}

	colors := moreland.SmoothBlueRed()
	lo, hi := floats.Min(grid.data), floats.Max(grid.data)
	if lo == hi {
		hi = lo + 1
	}
	colors.SetMin(lo)
	colors.SetMax(hi)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (pixel)"
	p.Y.Label.Text = "y (pixel)"
	p.Add(plotter.NewHeatMap(grid, colors.Palette(255)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save image plot: %w", err)
	}
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Image plot saved to %s", path), "plot")
	}
	return nil
}
