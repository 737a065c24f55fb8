package main

import (
	"fmt"

	pact "github.com/jmbenlloch/pact_go/pkg"
)

type WorkerResult struct {
	Data pact.ChannelData
	Err  error
}

func worker(id int, jobs <-chan int, results chan<- WorkerResult) {
	for ind := range jobs {
		if VerbosityLevel > 1 {
			logger.Info(fmt.Sprintf("Worker %d processing index %d", id, ind), "worker")
		}
		results <- unpackIndex(id, ind)
	}
}

func unpackIndex(id int, ind int) (result WorkerResult) {
	defer func() {
		if r := recover(); r != nil {
			result = WorkerResult{
				Data: pact.ChannelData{Index: ind, Error: true},
				Err:  fmt.Errorf("worker %d recovered from panic on index %d: %v", id, ind, r),
			}
		}
	}()

	data, err := pact.UnpackIndex(dbConn, configuration, ind)
	return WorkerResult{Data: data, Err: err}
}

func sendIndicesToWorkers(indices []int, jobs chan<- int) {
	for _, ind := range indices {
		jobs <- ind
	}
	close(jobs)
}

// processWorkerResults writes every unpacked index from this goroutine only,
// the HDF5 library is not reentrant. It returns the number of failed indices.
func processWorkerResults(results <-chan WorkerResult, total int) int {
	failed := 0
	for i := 0; i < total; i++ {
		result := <-results
		ind := result.Data.Index
		if result.Err != nil {
			logger.Error(fmt.Errorf("error unpacking index %d: %w", ind, result.Err).Error())
			failed++
			continue
		}
		if err := pact.SaveChannelData(result.Data, configuration.Extra.DestDir); err != nil {
			logger.Error(fmt.Errorf("error saving index %d: %w", ind, err).Error())
			failed++
			continue
		}
		if VerbosityLevel > 0 {
			logger.Info(fmt.Sprintf("Index %d done (%d/%d)", ind, i+1, total), "main")
		}
	}
	return failed
}
