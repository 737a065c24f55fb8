package pact

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	sqlx "github.com/jmoiron/sqlx"
)

// ChannelData is the unpacked, averaged and polarity-corrected result of
// one dataset index.
type ChannelData struct {
	Index      int
	Params     DemuxParams
	ChanMap    ChannelMap
	Chndata    []float64
	ChndataAll []float64
	Error      bool
}

// ChannelDataFileName is the output file of dataset index ind.
func ChannelDataFileName(ind int) string {
	return fmt.Sprintf("chndata_%d.h5", ind)
}

// ImageFileName is the reconstruction output of dataset index ind.
func ImageFileName(ind int) string {
	return fmt.Sprintf("pa_img_%d.h5", ind)
}

// ResolveIndices expands the load range of the options into dataset
// indices. When either end of the range is -1 the unindexed pack files of the
// source directory are renamed and their new index is returned. Having none
// to rename is not an error: the result is empty.
func ResolveIndices(config Configuration) ([]int, error) {
	start, end := config.Load.ExpStart, config.Load.ExpEnd
	if start == -1 || end == -1 {
		ind, err := RenameUnindexedFiles(config.Extra.SrcDir)
		if errors.Is(err, ErrNoUnindexedFiles) {
			logger.Info(fmt.Sprintf("No unindexed pack files in %s", config.Extra.SrcDir), "unpack")
			return []int{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []int{ind}, nil
	}
	if start < 0 {
		return nil, fmt.Errorf("EXP_START must be -1 or a dataset index, got %d", start)
	}
	if end < start {
		end = start
	}
	indices := make([]int, 0, end-start+1)
	for ind := start; ind <= end; ind++ {
		indices = append(indices, ind)
	}
	return indices, nil
}

// channelMapArray lays a channel map out as the host's Fortran
// [TotFirings, NumBoards*NumDaqChnsBoard] float matrix.
func channelMapArray(m ChannelMap, p DemuxParams) *Array {
	values := make([]float64, len(m))
	for k, v := range m {
		values[k] = float64(v)
	}
	return NewFortranArray(values, p.TotFirings, NumBoards*p.NumDaqChnsBoard)
}

// ResolveChannels picks the channel map and bad channels of dataset ind from
// the database, or from the built-in map and the options file when db is nil.
func ResolveChannels(db *sqlx.DB, ind int, config Configuration, p DemuxParams) (ChannelMap, []int, error) {
	if db == nil {
		return DefaultChannelMap(p), config.Unpack.BadChannels, nil
	}
	chanMap, err := LoadChannelMap(db, ind, p)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting channel map from database: %w", err)
	}
	badChannels, err := LoadBadChannels(db, ind)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting bad channels from database: %w", err)
	}
	return chanMap, badChannels, nil
}

// UnpackIndex reads both boards of dataset ind, demultiplexes them and
// applies the experiment average and the bad-channel sign fix.
func UnpackIndex(db *sqlx.DB, config Configuration, ind int) (ChannelData, error) {
	boards, numExpr, err := ReadBoards(config.Extra.SrcDir, config.Unpack, ind)
	if err != nil {
		return ChannelData{Index: ind, Error: true}, err
	}
	p := config.DemuxParams(numExpr)

	chanMap, badChannels, err := ResolveChannels(db, ind, config, p)
	if err != nil {
		return ChannelData{Index: ind, Error: true}, err
	}

	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Starting daq loop for index %d (%d experiments)", ind, numExpr), "unpack")
	}
	start := time.Now()
	records := GroupsPerFiring * p.TotFirings * numExpr
	board1 := NewFortranArray(boards[0], GroupWords(p.DataBlockSize), records)
	board2 := NewFortranArray(boards[1], GroupWords(p.DataBlockSize), records)
	chndata, chndataAll, err := DaqLoop(board1, board2, channelMapArray(chanMap, p), numExpr, p)
	if err != nil {
		return ChannelData{Index: ind, Error: true}, fmt.Errorf("daq loop for index %d: %w", ind, err)
	}
	if config.Verbosity > 0 {
		logger.Info(fmt.Sprintf("daq loop ended. %d ms elapsed", time.Since(start).Milliseconds()), "unpack")
	}

	data := ChannelData{
		Index:      ind,
		Params:     p,
		ChanMap:    chanMap,
		Chndata:    chndata.Float64s(),
		ChndataAll: chndataAll.Float64s(),
	}
	if err := Average(data.Chndata, numExpr); err != nil {
		return ChannelData{Index: ind, Error: true}, err
	}
	if err := FixBadChannels(data.Chndata, data.ChndataAll, badChannels, p); err != nil {
		return ChannelData{Index: ind, Error: true}, err
	}
	return data, nil
}

// SaveChannelData writes data to destDir/chndata_<ind>.h5.
func SaveChannelData(data ChannelData, destDir string) (err error) {
	filename := filepath.Join(destDir, ChannelDataFileName(data.Index))
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Saving data to %s", filename), "unpack")
	}
	writer, err := NewWriter(filename)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	if err := writer.WriteRunInfo(data.Index, data.ChanMap, data.Params); err != nil {
		return err
	}
	return writer.WriteChannelData(data.Chndata, data.ChndataAll, data.Params)
}
