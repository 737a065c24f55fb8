package pact

import (
	"errors"
	"fmt"
	"sort"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores the unpacked channel data of one dataset index, or a
// reconstructed image, in an HDF5 file.
type Writer struct {
	File            *hdf5.File
	Filename        string
	RunGroup        *hdf5.Group
	RDGroup         *hdf5.Group
	ReconGroup      *hdf5.Group
	RunInfoTable    *hdf5.Dataset
	ChannelMapTable *hdf5.Dataset
	Chndata         *hdf5.Dataset
	ChndataAll      *hdf5.Dataset
	Image           *hdf5.Dataset
	ExpCounter      int
}

func NewWriter(filename string) (*Writer, error) {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Creating file: %s", filename), "hdf5writer")
	}
	writer := &Writer{Filename: filename}
	var err error
	writer.File, err = openFile(filename)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

// runTables creates the Run group and its tables on first use, so image
// files carry only Recon.
func (w *Writer) runTables() error {
	if w.RunGroup != nil {
		return nil
	}
	var err error
	w.RunGroup, err = createGroup(w.File, "Run")
	if err != nil {
		return err
	}
	w.RunInfoTable, err = createTable(w.RunGroup, "runInfo", RunInfoHDF5{})
	if err != nil {
		return err
	}
	w.ChannelMapTable, err = createTable(w.RunGroup, "channelMap", ChannelMappingHDF5{})
	return err
}

// WriteRunInfo records the dataset index, experiment count and the channel
// map used to unpack it, sorted by output element.
func (w *Writer) WriteRunInfo(index int, chanMap ChannelMap, p DemuxParams) error {
	if err := w.runTables(); err != nil {
		return err
	}
	info := []RunInfoHDF5{{index: int32(index), numExperiments: int32(p.NumExperiments)}}
	if err := writeArrayToTable(w.RunInfoTable, &info, 0); err != nil {
		return fmt.Errorf("error writing run info: %w", err)
	}

	// The array MUST be allocated at creation, if not, HDF5 will panic
	// doing appends will not work
	entries := make([]ChannelMappingHDF5, p.ChannelMapSize())
	count := 0
	for b := 0; b < NumBoards; b++ {
		for c := 0; c < p.NumDaqChnsBoard; c++ {
			for f := 0; f < p.TotFirings; f++ {
				entries[count] = ChannelMappingHDF5{
					board:      int32(b),
					daqChannel: int32(c),
					firing:     int32(f),
					element:    int32(chanMap[chanMap.Position(b, c, f, p)]),
				}
				count++
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].element < entries[j].element
	})
	if err := writeArrayToTable(w.ChannelMapTable, &entries, 0); err != nil {
		return fmt.Errorf("error writing channel map: %w", err)
	}
	return nil
}

// WriteChannelData stores chndata as RD/chndata [NumElements][DataBlockSize]
// and appends every experiment of chndataAll to RD/chndata_all.
func (w *Writer) WriteChannelData(chndata, chndataAll []float64, p DemuxParams) error {
	var err error
	if w.RDGroup == nil {
		w.RDGroup, err = createGroup(w.File, "RD")
		if err != nil {
			return err
		}
	}
	dims := []uint{uint(p.NumElements), uint(p.DataBlockSize)}
	w.Chndata, err = createArray(w.RDGroup, "chndata", hdf5.T_NATIVE_DOUBLE, dims, nil)
	if err != nil {
		return err
	}
	data := chndata[:p.ChndataSize()]
	if len(data) > 0 {
		if err := w.Chndata.Write(&data); err != nil {
			return fmt.Errorf("error writing chndata: %w", err)
		}
	}

	w.ChndataAll, err = createExtendable3dArray(w.RDGroup, "chndata_all", p.NumElements, p.DataBlockSize)
	if err != nil {
		return err
	}
	slabSize := p.ChndataSize()
	for n := 0; n < p.NumExperiments; n++ {
		slab := chndataAll[n*slabSize : (n+1)*slabSize]
		if err := write3dSlab(w.ChndataAll, &slab, w.ExpCounter, p.NumElements, p.DataBlockSize); err != nil {
			return fmt.Errorf("error writing experiment %d: %w", n, err)
		}
		w.ExpCounter++
	}
	return nil
}

// WriteImage stores a reconstructed image as Recon/pa_img [nPixelY][nPixelX].
func (w *Writer) WriteImage(paImg []float64, nPixelX int, nPixelY int) error {
	var err error
	if w.ReconGroup == nil {
		w.ReconGroup, err = createGroup(w.File, "Recon")
		if err != nil {
			return err
		}
	}
	dims := []uint{uint(nPixelY), uint(nPixelX)}
	w.Image, err = createArray(w.ReconGroup, "pa_img", hdf5.T_NATIVE_DOUBLE, dims, nil)
	if err != nil {
		return err
	}
	data := paImg[:nPixelX*nPixelY]
	if len(data) == 0 {
		return nil
	}
	if err := w.Image.Write(&data); err != nil {
		return fmt.Errorf("error writing pa_img: %w", err)
	}
	return nil
}

type closer interface {
	Close() error
}

func (w *Writer) Close() error {
	if configuration.Verbosity > 1 {
		logger.Info(fmt.Sprintf("Closing file %s", w.Filename), "hdf5writer")
	}
	var errs []error
	handles := []struct {
		name string
		h    closer
	}{
		{"chndata", w.Chndata},
		{"chndata_all", w.ChndataAll},
		{"pa_img", w.Image},
		{"run info table", w.RunInfoTable},
		{"channel map table", w.ChannelMapTable},
		{"run group", w.RunGroup},
		{"RD group", w.RDGroup},
		{"recon group", w.ReconGroup},
		{"file", w.File},
	}
	for _, handle := range handles {
		if isNil(handle.h) {
			continue
		}
		if err := handle.h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s: %w", handle.name, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func isNil(h closer) bool {
	switch v := h.(type) {
	case *hdf5.Dataset:
		return v == nil
	case *hdf5.Group:
		return v == nil
	case *hdf5.File:
		return v == nil
	}
	return h == nil
}
