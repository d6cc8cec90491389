package experiments

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Throughput struct {
	Workers     int
	Games       int
	Duration    time.Duration
	GamesPerSec float64
}

// RunThroughputExperiment replays the same batch with each worker count and
// measures games per second. Nothing is written to disk.
func RunThroughputExperiment(config BatchConfig, workers []int) ([]Throughput, error) {
	config.OutputDir = ""
	measurements := []Throughput{}

	log.Info().Msg("starting throughput experiment...")
	for _, w := range workers {
		config.Workers = w
		start := time.Now()
		report, err := RunBatch(config)
		if err != nil {
			return nil, fmt.Errorf("throughput with %d workers: %w", w, err)
		}
		elapsed := time.Since(start)

		m := Throughput{Workers: w, Games: len(report.Games), Duration: elapsed}
		if elapsed > 0 {
			m.GamesPerSec = float64(m.Games) / elapsed.Seconds()
		}
		measurements = append(measurements, m)
		log.Info().Msgf("%d workers: %d games in %s (%.1f games/s)", w, m.Games, elapsed, m.GamesPerSec)
	}
	log.Info().Msg("completed throughput experiment")
	return measurements, nil
}
