package pact

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Image struct {
	Index   int
	NPixelX int
	NPixelY int
	Data    []float64
}

// ReconstructIndex back-projects the channel data of dataset ind with the
// index table named in the options. Each element's trace is one angular step.
func ReconstructIndex(config Configuration, ind int) (Image, error) {
	chndataFile := filepath.Join(config.Extra.DestDir, ChannelDataFileName(ind))
	chndata, numElements, dataBlockSize, err := ReadChannelData(chndataFile)
	if err != nil {
		return Image{Index: ind}, err
	}
	idxAll, weights, p, err := ReadIndexTable(config.Recon.IndexTable)
	if err != nil {
		return Image{Index: ind}, err
	}
	if config.Verbosity > 0 {
		message := fmt.Sprintf("Back-projecting index %d: %d steps of %d samples onto %dx%d pixels",
			ind, p.NSteps, dataBlockSize, p.NPixelX, p.NPixelY)
		logger.Info(message, "recon")
	}

	start := time.Now()
	paData := NewFortranArray(chndata, dataBlockSize, numElements)
	tableIdx := NewFortranArray(idxAll, p.NPixelX, p.NPixelY, p.NSteps)
	tableWeights := NewFortranArray(weights, p.NPixelX, p.NPixelY, p.NSteps)
	img, err := ReconLoop(paData, tableIdx, tableWeights, p.NPixelX, p.NPixelY, p.NSteps)
	if err != nil {
		return Image{Index: ind}, fmt.Errorf("recon loop for index %d: %w", ind, err)
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("recon loop ended. %d ms elapsed", time.Since(start).Milliseconds()), "recon")
	}
	return Image{Index: ind, NPixelX: p.NPixelX, NPixelY: p.NPixelY, Data: img.Float64s()}, nil
}

// SaveImage writes destDir/pa_img_<ind>.h5 and, with plot set, a PNG heat
// map next to it.
func SaveImage(img Image, destDir string, plot bool) (err error) {
	filename := filepath.Join(destDir, ImageFileName(img.Index))
	writer, err := NewWriter(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()
	if err := writer.WriteImage(img.Data, img.NPixelX, img.NPixelY); err != nil {
		return err
	}
	if plot {
		pngFile := strings.TrimSuffix(filename, ".h5") + ".png"
		title := fmt.Sprintf("Reconstruction %d", img.Index)
		if err := SaveImagePlot(img.Data, img.NPixelX, img.NPixelY, title, pngFile); err != nil {
			return err
		}
	}
	return nil
}
