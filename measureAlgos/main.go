package main

import (
	"errors"
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
	flags := parseFlags()

	var err error
	configuration, err = pact.LoadConfiguration(flags.Config)
	if err != nil {
		message := fmt.Errorf("Error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
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

	dbConn, err := pact.OpenDatabase(configuration)
	if err != nil {
		message := fmt.Errorf("Error connection to database: %w", err)
		logger.Error(message.Error())
		return
	}
	if dbConn != nil {
		defer dbConn.Close()
	}

	boards, numExpr, err := pact.ReadBoards(configuration.Extra.SrcDir, configuration.Unpack, flags.Index)
	if err != nil {
		message := fmt.Errorf("Error reading pack files: %w", err)
		logger.Error(message.Error())
		return
	}
	params := configuration.DemuxParams(numExpr)
	chanMap, badChannels, err := pact.ResolveChannels(dbConn, flags.Index, configuration, params)
	if err != nil {
		logger.Error(err.Error())
		return
	}

	start := time.Now()
	jobs := make(chan DemuxJob, configuration.NumWorkers)
	results := make(chan DemuxTiming, configuration.NumWorkers)
	for w := 1; w <= configuration.NumWorkers; w++ {
		go worker(w, jobs, results)
	}
	job := DemuxJob{Boards: boards, ChanMap: chanMap, Params: params}
	go sendJobsToWorkers(job, flags.Repeat, jobs)

	mean, succeeded := processWorkerResults(results, flags.Repeat)
	fmt.Printf("(demux, %d workers) %d/%d runs, mean %d us, wall %d ms\n",
		configuration.NumWorkers, succeeded, flags.Repeat, mean.Microseconds(), time.Since(start).Milliseconds())

	data := pact.ChannelData{
		Index:      flags.Index,
		Params:     params,
		ChanMap:    chanMap,
		Chndata:    make([]float64, params.ChndataSize()),
		ChndataAll: make([]float64, params.ChndataAllSize()),
	}
	if err := pact.Demux(boards, chanMap, params, data.Chndata, data.ChndataAll); err != nil {
		logger.Error(fmt.Errorf("Error demultiplexing: %w", err).Error())
		return
	}
	if err := pact.Average(data.Chndata, numExpr); err != nil {
		logger.Error(err.Error())
		return
	}
	if err := pact.FixBadChannels(data.Chndata, data.ChndataAll, badChannels, params); err != nil {
		logger.Error(err.Error())
		return
	}

	for compressionLevel := 0; compressionLevel < 10; compressionLevel++ {
		configuration.CompressionLevel = compressionLevel
		pact.SetConfiguration(configuration)
		start := time.Now()
		if err := writeChannelData(flags.Output, data); err != nil {
			logger.Error(fmt.Sprintf("Error writing %s: %v", flags.Output, err))
			continue
		}
		duration := time.Since(start)
		fileInfo, err := os.Stat(flags.Output)
		if err != nil {
			logger.Error(fmt.Sprintf("Error getting file info: %v", err))
			continue
		}
		fmt.Printf("(hdf5, comp %d) Time: %d ms, size %d bytes\n", compressionLevel, duration.Milliseconds(), fileInfo.Size())
	}
}

func writeChannelData(filename string, data pact.ChannelData) (err error) {
	writer, err := pact.NewWriter(filename)
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
