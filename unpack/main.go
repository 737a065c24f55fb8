package main

import (
	"fmt"
	"os"
	"time"

	pact "github.com/jmbenlloch/pact_go/pkg"
	sqlx "github.com/jmoiron/sqlx"
)

var dbConn *sqlx.DB
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

// run returns true when the configuration could not be used or any index failed.
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

	dbConn, err = pact.OpenDatabase(configuration)
	if err != nil {
		message := fmt.Errorf("Error connection to database: %w", err)
		logger.Error(message.Error())
		return true
	}
	if dbConn != nil {
		defer dbConn.Close()
	}

	indices, err := pact.ResolveIndices(configuration)
	if err != nil {
		message := fmt.Errorf("Error resolving dataset indices: %w", err)
		logger.Error(message.Error())
		return true
	}
	if len(indices) == 0 {
		logger.Info("Nothing to unpack", "main")
		return false
	}
	if err := os.MkdirAll(configuration.Extra.DestDir, 0755); err != nil {
		message := fmt.Errorf("Error creating output dir: %w", err)
		logger.Error(message.Error())
		return true
	}
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Unpacking indices %v with %d workers", indices, configuration.NumWorkers)
		logger.Info(message, "main")
	}

	start := time.Now()
	jobs := make(chan int, len(indices))
	results := make(chan WorkerResult, configuration.NumWorkers)

	for w := 1; w <= configuration.NumWorkers; w++ {
		go worker(w, jobs, results)
	}
	go sendIndicesToWorkers(indices, jobs)

	failed := processWorkerResults(results, len(indices))

	duration := time.Since(start)
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Total time: %d ms", duration.Milliseconds())
		logger.Info(message, "main")
	}
	if failed > 0 {
		logger.Error(fmt.Sprintf("%d of %d indices failed", failed, len(indices)))
		return true
	}
	return false
}
