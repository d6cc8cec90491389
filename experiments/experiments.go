package experiments

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wildperudo/agent"
	"wildperudo/engine"
	"wildperudo/experiments/metrics"
	"wildperudo/game"
	"wildperudo/meta"
)

var ErrInvalidBatch = errors.New("invalid batch")

type MatchUp struct {
	A agent.Kind
	B agent.Kind
}

// AllMatchUps pairs every automated kind with every other kind, itself
// included.
func AllMatchUps() []MatchUp {
	matchUps := []MatchUp{}
	for i, a := range agent.Kinds {
		for _, b := range agent.Kinds[i:] {
			matchUps = append(matchUps, MatchUp{A: a, B: b})
		}
	}
	return matchUps
}

type BatchConfig struct {
	Name     string
	MatchUps []MatchUp
	Games    int // per match up
	Rounds   int
	Dice     int
	Seed     uint64
	Workers  int // 0 means one per CPU
	// OutputDir receives the CSV files; empty skips writing.
	OutputDir string
	// Options tune every automated agent in the batch.
	Options []agent.Option
}

// Standing aggregates the results of one agent kind over a batch.
type Standing struct {
	Kind   agent.Kind
	Games  int
	Wins   int
	Losses int
	Ties   int
	Points int
}

type Report struct {
	Dir       string
	Games     []metrics.GameRecord
	Rounds    []metrics.RoundRecord
	Scores    []metrics.ScoreRecord
	Standings []Standing
}

type gameJob struct {
	ID      int
	Seed    uint64
	MatchUp MatchUp
	Swap    bool // second kind takes the first seat
}

type gameResult struct {
	job    gameJob
	result engine.Result
	metric metrics.GameMetric
	rounds []metrics.RoundMetric
	err    error
}

// RunBatch plays every match up Games times. Seeds are drawn up front from
// the master seed, so the results do not depend on the number of workers.
func RunBatch(config BatchConfig) (Report, error) {
	config, err := normalize(config)
	if err != nil {
		return Report{}, err
	}

	rng := game.NewRNG(config.Seed)
	jobs := make([]gameJob, 0, len(config.MatchUps)*config.Games)
	for _, matchUp := range config.MatchUps {
		for i := 0; i < config.Games; i++ {
			jobs = append(jobs, gameJob{
				ID:      len(jobs) + 1,
				Seed:    rng.Uint64(),
				MatchUp: matchUp,
				Swap:    i%2 == 1,
			})
		}
	}

	log.Info().Msgf("starting %s batch: %d games on %d workers...", config.Name, len(jobs), config.Workers)
	results := runJobs(jobs, config)

	report := Report{}
	for _, r := range results {
		if r.err != nil {
			return Report{}, fmt.Errorf("game %d: %w", r.job.ID, r.err)
		}
		report.add(r)
	}
	report.Standings = standings(results)
	log.Info().Msgf("completed %s batch", config.Name)

	if config.OutputDir == "" {
		return report, nil
	}
	dir, err := writeReport(config, report)
	if err != nil {
		return Report{}, err
	}
	report.Dir = dir
	return report, nil
}

func normalize(config BatchConfig) (BatchConfig, error) {
	if config.Name == "" {
		config.Name = "batch"
	}
	if len(config.MatchUps) == 0 {
		config.MatchUps = AllMatchUps()
	}
	if config.Games <= 0 {
		config.Games = meta.GAMES
	}
	if config.Rounds <= 0 {
		config.Rounds = meta.ROUNDS
	}
	if config.Dice <= 0 {
		config.Dice = meta.DICE
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	for _, matchUp := range config.MatchUps {
		for _, kind := range []agent.Kind{matchUp.A, matchUp.B} {
			if !slices.Contains(agent.Kinds, kind) {
				return config, fmt.Errorf("%w: %q cannot play unattended", ErrInvalidBatch, kind)
			}
		}
	}
	return config, nil
}

func runJobs(jobs []gameJob, config BatchConfig) []gameResult {
	queue := make(chan gameJob, len(jobs))
	out := make(chan gameResult, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go worker(&wg, queue, out, config)
	}
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]gameResult, 0, len(jobs))
	for r := range out {
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b gameResult) int {
		return a.job.ID - b.job.ID
	})
	return results
}

func worker(wg *sync.WaitGroup, jobs <-chan gameJob, results chan<- gameResult, config BatchConfig) {
	defer wg.Done()

	for job := range jobs {
		results <- runGame(job, config)
	}
}

// runGame plays a single seeded game. Every random source of the game is
// derived from the job seed.
func runGame(job gameJob, config BatchConfig) gameResult {
	rng := game.NewRNG(job.Seed)
	sessionSeed := rng.Uint64()

	kinds := []agent.Kind{job.MatchUp.A, job.MatchUp.B}
	if job.Swap {
		kinds[0], kinds[1] = kinds[1], kinds[0]
	}
	agents := make([]game.Agent, 0, len(kinds))
	for seat, kind := range kinds {
		a, err := agent.New(kind, seatName(kind, seat), config.Dice, game.NewRNG(rng.Uint64()), config.Options...)
		if err != nil {
			return gameResult{job: job, err: err}
		}
		agents = append(agents, a)
	}

	logger := log.Logger.With().Int("game", job.ID).Logger().Level(zerolog.WarnLevel)
	session, err := engine.New(agents,
		engine.WithSeed(sessionSeed),
		engine.WithLogger(logger),
		engine.WithCollector(metrics.NewCollector()),
	)
	if err != nil {
		return gameResult{job: job, err: err}
	}

	log.Debug().Msgf("starting game %d: %s vs %s", job.ID, kinds[0], kinds[1])
	result, err := session.Run(config.Rounds)
	if err != nil {
		return gameResult{job: job, err: err}
	}
	log.Debug().Msgf("completed game %d with winner: %q", job.ID, result.Winner)

	return gameResult{
		job:    job,
		result: result,
		metric: session.Metric(),
		rounds: session.RoundMetrics(),
	}
}

func seatName(kind agent.Kind, seat int) string {
	return fmt.Sprintf("%s%d", kind, seat+1)
}

func (r *Report) add(g gameResult) {
	a1, a2 := kindID(g.job.MatchUp.A), kindID(g.job.MatchUp.B)
	if g.job.Swap {
		a1, a2 = a2, a1
	}
	r.Games = append(r.Games, metrics.GameRecord{
		ID:         g.job.ID,
		Seed:       g.job.Seed,
		Agent1:     a1,
		Agent2:     a2,
		GameMetric: g.metric,
	})
	for _, rm := range g.rounds {
		r.Rounds = append(r.Rounds, metrics.RoundRecord{Game: g.job.ID, RoundMetric: rm})
	}
	for _, score := range g.result.Scores {
		r.Scores = append(r.Scores, metrics.ScoreRecord{Game: g.job.ID, Agent: score.Name, Score: score.Score})
	}
}

func kindID(kind agent.Kind) int {
	return slices.Index(agent.Kinds, kind) + 1
}

func kindOf(seat string) agent.Kind {
	for _, kind := range agent.Kinds {
		if seat == seatName(kind, 0) || seat == seatName(kind, 1) {
			return kind
		}
	}
	return ""
}

func standings(results []gameResult) []Standing {
	byKind := make(map[agent.Kind]*Standing)
	for _, kind := range agent.Kinds {
		byKind[kind] = &Standing{Kind: kind}
	}
	for _, r := range results {
		for _, score := range r.result.Scores {
			s := byKind[kindOf(score.Name)]
			s.Games++
			s.Points += score.Score
			switch {
			case r.result.Tie:
				s.Ties++
			case r.result.Winner == score.Name:
				s.Wins++
			default:
				s.Losses++
			}
		}
	}

	out := []Standing{}
	for _, kind := range agent.Kinds {
		if s := byKind[kind]; s.Games > 0 {
			out = append(out, *s)
		}
	}
	return out
}

func writeReport(config BatchConfig, report Report) (string, error) {
	writer, err := metrics.NewWriter(config.OutputDir, config.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	configs := make([]metrics.AgentConfig, 0, len(agent.Kinds))
	for _, kind := range agent.Kinds {
		configs = append(configs, metrics.AgentConfig{ID: kindID(kind), Kind: string(kind)})
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteRoundRecords(report.Rounds); err != nil {
		return "", fmt.Errorf("failed to write round records: %w", err)
	}
	if err := writer.WriteScores(report.Scores); err != nil {
		return "", fmt.Errorf("failed to write scores: %w", err)
	}
	log.Info().Msgf("stored scores in %s", writer.Dir())
	return writer.Dir(), nil
}
