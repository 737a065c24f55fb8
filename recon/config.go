package main

import (
	"fmt"

	pact "github.com/jmbenlloch/pact_go/pkg"
	flag "github.com/spf13/pflag"
)

type Flags struct {
	Config     string
	Indices    []int
	IndexTable string
	DestDir    string
	Plot       bool
}

func parseFlags() Flags {
	var f Flags
	flag.StringVarP(&f.Config, "config", "c", "", "Configuration file path")
	flag.IntSliceVarP(&f.Indices, "index", "i", nil, "Dataset indices to reconstruct (default: the load range)")
	flag.StringVar(&f.IndexTable, "table", "", "HDF5 file with idxAll and angularWeight")
	flag.StringVar(&f.DestDir, "dest", "", "Directory with the unpacked channel data")
	flag.BoolVar(&f.Plot, "plot", false, "Save a PNG of every image")
	flag.Parse()
	return f
}

func applyFlags(config pact.Configuration, f Flags) pact.Configuration {
	if flag.CommandLine.Changed("table") {
		config.Recon.IndexTable = f.IndexTable
	}
	if flag.CommandLine.Changed("dest") {
		config.Extra.DestDir = f.DestDir
	}
	if flag.CommandLine.Changed("plot") {
		config.Recon.SavePlot = f.Plot
	}
	return config
}

// reconIndices uses the indices given on the command line, or the load range
// of the options file. Unindexed pack files have no channel data yet, so an
// EXP_START of -1 is rejected and an EXP_END of -1 means EXP_START alone.
func reconIndices(config pact.Configuration, f Flags) ([]int, error) {
	if len(f.Indices) > 0 {
		return f.Indices, nil
	}
	if config.Load.ExpStart < 0 {
		return nil, fmt.Errorf("no dataset index given and EXP_START is %d", config.Load.ExpStart)
	}
	if config.Load.ExpEnd < config.Load.ExpStart {
		config.Load.ExpEnd = config.Load.ExpStart
	}
	return pact.ResolveIndices(config)
}
