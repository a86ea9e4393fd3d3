package incperf

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// tallyChunk is how many increments a worker performs between tally updates.
// Keeps the stats map off the hot path.
const tallyChunk = 10000

// statsInterval is how often a verbose run logs progress.
const statsInterval = 5 * time.Second

// burstLimit for the rate limiter in paced mode.
const burstLimit = 100

// IncPerf hammers one shared counter from NumWorkers goroutines, each
// performing NumIterations increments, and reports the final value.
type IncPerf struct {
	NumWorkers    int
	NumIterations int
	Variant       string
	NumRuns       int
	Rate          int // aggregate increments/s, 0 means unlimited
	SimulateWork  bool
	Verbose       bool

	tallies *WorkerMap
}

func (p *IncPerf) Validate() error {
	if p.NumWorkers < 0 {
		return fmt.Errorf("invalid number of workers %d", p.NumWorkers)
	}
	if p.NumIterations < 0 {
		return fmt.Errorf("invalid number of iterations %d", p.NumIterations)
	}
	if p.Rate < 0 {
		return fmt.Errorf("invalid rate %d", p.Rate)
	}
	if _, err := NewCounter(p.Variant); err != nil {
		return err
	}
	return nil
}

// Expected is the value every complete run must end on.
func (p *IncPerf) Expected() int64 {
	return int64(p.NumWorkers) * int64(p.NumIterations)
}

// Run performs the configured number of runs, each on a fresh counter, and
// returns the final value of the last one. A run that comes up short of
// NumWorkers*NumIterations means an increment was lost; it is logged, not
// recovered from.
func (p *IncPerf) Run() (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	runs := p.NumRuns
	if runs <= 0 {
		runs = 1
	}

	expected := p.Expected()
	var final int64
	for run := 0; run < runs; run++ {
		counter, err := NewCounter(p.Variant)
		if err != nil {
			return 0, err
		}
		final = p.RunWith(counter)
		if final != expected {
			log.Warnf("run %d: lost updates: counter is %d, want %d", run, final, expected)
		} else if p.Verbose {
			log.Infof("run %d: counter is %d", run, final)
		}
	}
	return final, nil
}

// RunWith spawns the workers against the given counter, joins them all and
// only then reads the final value. The counter may be pre-incremented; the
// run adds exactly NumWorkers*NumIterations on top.
func (p *IncPerf) RunWith(counter Counter) int64 {
	tallies := NewWorkerMap()
	p.tallies = tallies

	var limiter *rate.Limiter
	if p.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(p.Rate), burstLimit)
	}

	now := time.Now()
	stop := make(chan struct{})
	if p.Verbose {
		go p.watchProgress(now, tallies, stop)
	}

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.work(worker, counter, tallies, limiter)
		}(i)
	}
	wg.Wait()
	close(stop)

	elapsed := time.Since(now)
	val := counter.Value()
	if p.Verbose {
		log.Infof("time elapsed: %v", elapsed)
		if secs := elapsed.Seconds(); secs > 0 && val > 0 {
			log.Infof("throughput: %.0f increments/s", float64(val)/secs)
		}
	}
	return val
}

// work is one worker's whole life: a tight increment loop, chunked only so
// the tally map sees periodic updates.
func (p *IncPerf) work(worker int, counter Counter, tallies *WorkerMap, limiter *rate.Limiter) {
	remaining := p.NumIterations
	for remaining > 0 {
		chunk := tallyChunk
		if remaining < chunk {
			chunk = remaining
		}
		for j := 0; j < chunk; j++ {
			if limiter != nil {
				r := limiter.Reserve()
				if r == nil {
					panic("Something is wrong with rate limiter")
				}
				time.Sleep(r.Delay())
			}
			counter.Increment()
			if p.SimulateWork {
				// Mimics a consumer formatting the value it just produced.
				_ = strconv.FormatInt(counter.Value(), 10)
			}
		}
		remaining -= chunk
		tallies.Add(worker, int64(chunk))
	}
}

func (p *IncPerf) watchProgress(start time.Time, tallies *WorkerMap, stop chan struct{}) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.printStats(start, tallies)
		}
	}
}

func (p *IncPerf) printStats(start time.Time, tallies *WorkerMap) {
	log.Infof("time since start: %v", time.Since(start))
	log.Infof("increments done: %d of %d", tallies.Total(), p.Expected())
}
