package main

import (
	"fmt"
	"time"

	pact "github.com/jmbenlloch/pact_go/pkg"
)

type DemuxJob struct {
	Run     int
	Boards  [pact.NumBoards][]uint32
	ChanMap pact.ChannelMap
	Params  pact.DemuxParams
}

type DemuxTiming struct {
	Run      int
	Duration time.Duration
	Err      error
}

// worker runs each job on its own output buffers.
func worker(id int, jobs <-chan DemuxJob, results chan<- DemuxTiming) {
	for job := range jobs {
		results <- runDemux(id, job)
	}
}

func runDemux(id int, job DemuxJob) (timing DemuxTiming) {
	timing.Run = job.Run
	defer func() {
		if r := recover(); r != nil {
			timing.Err = fmt.Errorf("worker %d recovered from panic on run %d: %v", id, job.Run, r)
		}
	}()

	chndata := make([]float64, job.Params.ChndataSize())
	chndataAll := make([]float64, job.Params.ChndataAllSize())
	start := time.Now()
	timing.Err = pact.Demux(job.Boards, job.ChanMap, job.Params, chndata, chndataAll)
	timing.Duration = time.Since(start)
	return timing
}

func sendJobsToWorkers(job DemuxJob, repeat int, jobs chan<- DemuxJob) {
	for run := 0; run < repeat; run++ {
		job.Run = run
		jobs <- job
	}
	close(jobs)
}

// processWorkerResults returns the mean demux time of the successful runs.
func processWorkerResults(results <-chan DemuxTiming, repeat int) (time.Duration, int) {
	var total time.Duration
	succeeded := 0
	for i := 0; i < repeat; i++ {
		timing := <-results
		if timing.Err != nil {
			logger.Error(fmt.Errorf("demux run %d: %w", timing.Run, timing.Err).Error())
			continue
		}
		if VerbosityLevel > 1 {
			logger.Info(fmt.Sprintf("Run %d: %d us", timing.Run, timing.Duration.Microseconds()), "measure")
		}
		total += timing.Duration
		succeeded++
	}
	if succeeded == 0 {
		return 0, 0
	}
	return total / time.Duration(succeeded), succeeded
}
