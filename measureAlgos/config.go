package main

import (
	pact "github.com/jmbenlloch/pact_go/pkg"
	flag "github.com/spf13/pflag"
)

type Flags struct {
	Config  string
	Index   int
	Repeat  int
	Workers int
	Output  string
}

func parseFlags() Flags {
	var f Flags
	flag.StringVarP(&f.Config, "config", "c", "", "Configuration file path")
	flag.IntVarP(&f.Index, "index", "i", 1, "Dataset index to measure")
	flag.IntVarP(&f.Repeat, "repeat", "r", 10, "Demux runs to time")
	flag.IntVarP(&f.Workers, "workers", "w", 1, "Concurrent demux runs")
	flag.StringVarP(&f.Output, "output", "o", "measure.h5", "Output file for the compression runs")
	flag.Parse()
	return f
}

func applyFlags(config pact.Configuration, f Flags) pact.Configuration {
	if flag.CommandLine.Changed("workers") {
		config.NumWorkers = f.Workers
	}
	if config.NumWorkers < 1 {
		config.NumWorkers = 1
	}
	return config
}
