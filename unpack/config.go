package main

import (
	pact "github.com/jmbenlloch/pact_go/pkg"
	flag "github.com/spf13/pflag"
)

type Flags struct {
	Config  string
	Start   int
	End     int
	Workers int
	SrcDir  string
	DestDir string
	NoDB    bool
}

func parseFlags() Flags {
	var f Flags
	flag.StringVarP(&f.Config, "config", "c", "", "Configuration file path")
	flag.IntVar(&f.Start, "start", -1, "First dataset index, -1 indexes the newest pack files")
	flag.IntVar(&f.End, "end", -1, "Last dataset index")
	flag.IntVarP(&f.Workers, "workers", "w", 1, "Number of unpacking workers")
	flag.StringVar(&f.SrcDir, "src", "", "Directory holding the pack files")
	flag.StringVar(&f.DestDir, "dest", "", "Output directory")
	flag.BoolVar(&f.NoDB, "no-db", false, "Use the built-in channel map")
	flag.Parse()
	return f
}

// applyFlags overrides the options file with every flag set on the command line.
func applyFlags(config pact.Configuration, f Flags) pact.Configuration {
	if flag.CommandLine.Changed("start") {
		config.Load.ExpStart = f.Start
	}
	if flag.CommandLine.Changed("end") {
		config.Load.ExpEnd = f.End
	}
	if flag.CommandLine.Changed("workers") {
		config.NumWorkers = f.Workers
	}
	if flag.CommandLine.Changed("src") {
		config.Extra.SrcDir = f.SrcDir
	}
	if flag.CommandLine.Changed("dest") {
		config.Extra.DestDir = f.DestDir
	}
	if flag.CommandLine.Changed("no-db") {
		config.NoDB = f.NoDB
	}
	if config.NumWorkers < 1 {
		config.NumWorkers = 1
	}
	return config
}
