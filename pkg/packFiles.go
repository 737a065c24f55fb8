package pact

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"golang.org/x/exp/slices"
)

var (
	unindexedPackPattern = regexp.MustCompile(`^Board[0-9]+Experiment[0-9]+TotalFiring[0-9]+_Pack\.bin$`)
	indexedPackPattern   = regexp.MustCompile(`^Board([0-9]+)Experiment([0-9]+)TotalFiring([0-9]+)_Pack_([0-9]+)\.bin$`)
)

// PackFileName is the name the acquisition software gives to the raw words
// of one board for dataset index ind.
func PackFileName(boardName string, numExperiments int, totFirings int, ind int) string {
	return fmt.Sprintf("%sExperiment%dTotalFiring%d_Pack_%d.bin", boardName, numExperiments, totFirings, ind)
}

// RenameUnindexedFiles appends the next free dataset index to every pack file
// in dir that does not carry one yet, and returns that index. The first index
// handed out in an empty directory is 1.
func RenameUnindexedFiles(dir string) (int, error) {
	if configuration.Verbosity > 0 {
		logger.Info(fmt.Sprintf("Renaming unindexed raw data files in %s", dir), "packFiles")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return -1, &ErrOpenFile{Filename: dir, Err: err}
	}

	targets := make([]string, 0)
	maxIndex := 0
	for _, entry := range entries {
		name := entry.Name()
		if unindexedPackPattern.MatchString(name) {
			targets = append(targets, name)
			continue
		}
		if match := indexedPackPattern.FindStringSubmatch(name); match != nil {
			index, _ := strconv.Atoi(match[4])
			maxIndex = max(maxIndex, index)
		}
	}
	if len(targets) == 0 {
		return -1, ErrNoUnindexedFiles
	}

	renameIndex := maxIndex + 1
	for _, name := range targets {
		src := filepath.Join(dir, name)
		dst := filepath.Join(dir, fmt.Sprintf("%s_%d.bin", name[:len(name)-len(".bin")], renameIndex))
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("%s -> %s", src, dst), "packFiles")
		}
		if err := os.Rename(src, dst); err != nil {
			return -1, fmt.Errorf("error renaming %s: %w", src, err)
		}
	}
	return renameIndex, nil
}

// FindExperimentCount returns the number of experiments recorded for
// dataset ind. When the boards disagree the last file found wins.
func FindExperimentCount(dir string, totFirings int, ind int) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return -1, &ErrOpenFile{Filename: dir, Err: err}
	}
	pattern := regexp.MustCompile(fmt.Sprintf(`^Board([0-9]+)Experiment([0-9]+)TotalFiring%d_Pack_%d\.bin$`, totFirings, ind))

	counts := make([]int, 0)
	for _, entry := range entries {
		match := pattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		numExpr, _ := strconv.Atoi(match[2])
		counts = append(counts, numExpr)
	}
	if len(counts) == 0 {
		return -1, fmt.Errorf("index %d in %s: %w", ind, dir, ErrNoPackFiles)
	}
	if len(slices.Compact(slices.Clone(counts))) > 1 {
		logger.Error(fmt.Sprintf("multiple experiment numbers %v found for index %d, using %d", counts, ind, counts[len(counts)-1]))
	}
	return counts[len(counts)-1], nil
}

// ReadPackFile reads records little-endian records of packSize words and
// keeps the first 2*dataBlockSize words of each, one word group per record.
func ReadPackFile(filename string, packSize int, dataBlockSize int, records int) ([]uint32, error) {
	groupWords := GroupWords(dataBlockSize)
	if packSize < groupWords {
		return nil, &SizeError{Name: "PackSize", Want: groupWords, Got: packSize}
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, &ErrOpenFile{Filename: filename, Err: err}
	}
	wantBytes := records * packSize * 4
	if info.Size() != int64(wantBytes) {
		return nil, &SizeError{Name: filename + " bytes", Want: wantBytes, Got: int(info.Size())}
	}

	reader := bufio.NewReader(file)
	record := make([]uint32, packSize)
	words := make([]uint32, records*groupWords)
	for r := 0; r < records; r++ {
		if err := binary.Read(reader, binary.LittleEndian, record); err != nil {
			return nil, fmt.Errorf("error reading record %d of %s: %w", r, filename, err)
		}
		copy(words[r*groupWords:(r+1)*groupWords], record[:groupWords])
	}
	return words, nil
}

// ReadBoards loads the pack files of every board for dataset ind.
func ReadBoards(dir string, opts UnpackOptions, ind int) ([NumBoards][]uint32, int, error) {
	var boards [NumBoards][]uint32
	if len(opts.BoardName) < NumBoards {
		return boards, -1, &SizeError{Name: "BoardName entries", Want: NumBoards, Got: len(opts.BoardName)}
	}
	numExpr, err := FindExperimentCount(dir, opts.TotFirings, ind)
	if err != nil {
		return boards, -1, err
	}
	records := GroupsPerFiring * opts.TotFirings * numExpr
	for b := 0; b < NumBoards; b++ {
		filename := filepath.Join(dir, PackFileName(opts.BoardName[b], numExpr, opts.TotFirings, ind))
		if configuration.Verbosity > 1 {
			logger.Info(fmt.Sprintf("Reading %s", filename), "packFiles")
		}
		boards[b], err = ReadPackFile(filename, opts.PackSize, opts.DataBlockSize, records)
		if err != nil {
			return boards, -1, err
		}
	}
	return boards, numExpr, nil
}
