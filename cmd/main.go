package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/veoo/incperf"
)

var numWorkers = flag.Int("t", 100, "number of worker goroutines")
var numIterations = flag.Int("n", 1000000, "increments per worker")
var variant = flag.String("variant", "mutex", "counter variant (mutex or atomic)")
var numRuns = flag.Int("runs", 1, "number of times to repeat the whole run")
var incRate = flag.Int("r", 0, "aggregate rate limit in increments/s, 0 for unlimited")
var work = flag.Bool("work", false, "format the counter value on every increment to simulate load")
var verbose = flag.Bool("verbose", false, "Be verbose")
var configPath = flag.String("config", "", "optional YAML config file, flags set explicitly still win")

func main() {
	flag.Parse()

	cfg := &incperf.Config{
		NumWorkers:    *numWorkers,
		NumIterations: *numIterations,
		Variant:       *variant,
		NumRuns:       *numRuns,
		Rate:          *incRate,
		SimulateWork:  *work,
		Verbose:       *verbose,
	}

	if *configPath != "" {
		fileCfg, err := incperf.LoadConfig(*configPath)
		if err != nil {
			log.Fatal("error reading config: ", err)
		}
		cfg = fileCfg
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "t":
				cfg.NumWorkers = *numWorkers
			case "n":
				cfg.NumIterations = *numIterations
			case "variant":
				cfg.Variant = *variant
			case "runs":
				cfg.NumRuns = *numRuns
			case "r":
				cfg.Rate = *incRate
			case "work":
				cfg.SimulateWork = *work
			case "verbose":
				cfg.Verbose = *verbose
			}
		})
	}

	perf := &incperf.IncPerf{
		NumWorkers:    cfg.NumWorkers,
		NumIterations: cfg.NumIterations,
		Variant:       cfg.Variant,
		NumRuns:       cfg.NumRuns,
		Rate:          cfg.Rate,
		SimulateWork:  cfg.SimulateWork,
		Verbose:       cfg.Verbose,
	}

	val, err := perf.Run()
	if err != nil {
		log.Fatal("Error: ", err)
	}

	fmt.Printf("Counter: %d\n", val)
}
