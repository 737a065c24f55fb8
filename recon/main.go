package main

import (
	"fmt"
	"os"
	"time"

	pact "github.com/jmbenlloch/pact_go/pkg"
)

var configuration pact.Configuration

var (
	logger         pact.SlogLogger
	VerbosityLevel int
)

func init() {
	logger = pact.NewSlogLogger(os.Stdout, os.Stderr)
}

func main() {
	if failed := run(parseFlags()); failed {
		os.Exit(1)
	}
}

func run(flags Flags) bool {
	var err error
	configuration, err = pact.LoadConfiguration(flags.Config)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return true
	}
	configuration = applyFlags(configuration, flags)
	pact.SetConfiguration(configuration)
	pact.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", flags.Config)
		logger.Info(message, "main")
		pact.PrintConfiguration(configuration, logger)
	}

	indices, err := reconIndices(configuration, flags)
	if err != nil {
		logger.Error(err.Error())
		return true
	}

	start := time.Now()
	failed := 0
	for _, ind := range indices {
		if err := reconstruct(ind); err != nil {
			logger.Error(fmt.Errorf("error reconstructing index %d: %w", ind, err).Error())
			failed++
		}
	}

	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Total time: %d ms", time.Since(start).Milliseconds())
		logger.Info(message, "main")
	}
	return failed > 0
}

func reconstruct(ind int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recon recovered from panic: %v", r)
		}
	}()

	img, err := pact.ReconstructIndex(configuration, ind)
	if err != nil {
		return err
	}
	return pact.SaveImage(img, configuration.Extra.DestDir, configuration.Recon.SavePlot)
}
