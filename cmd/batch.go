package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wildperudo/agent"
	"wildperudo/experiments"
)

var batchFlags struct {
	name       string
	matchUps   []string
	games      int
	rounds     int
	dice       int
	seed       uint64
	workers    int
	out        string
	throughput []int
}

// batchCmd plays seeded games between agent kinds and stores the results
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Play a batch of games between agents",
	Long: `Plays every match up --games times with seeds drawn from the master
seed and writes game_records.csv, round_records.csv and scores.csv.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "games", &cfg.Games, batchFlags.games)
		override(cmd, "rounds", &cfg.Rounds, batchFlags.rounds)
		override(cmd, "dice", &cfg.Dice, batchFlags.dice)
		override(cmd, "seed", &cfg.Seed, batchFlags.seed)
		override(cmd, "workers", &cfg.Workers, batchFlags.workers)
		override(cmd, "out", &cfg.OutputDir, batchFlags.out)
		if err := cfg.Validate(); err != nil {
			return err
		}

		matchUps, err := parseMatchUps(batchFlags.matchUps)
		if err != nil {
			return err
		}
		seed, err := cfg.ResolveSeed()
		if err != nil {
			return err
		}

		config := experiments.BatchConfig{
			Name:      batchFlags.name,
			MatchUps:  matchUps,
			Games:     cfg.Games,
			Rounds:    cfg.Rounds,
			Dice:      cfg.Dice,
			Seed:      seed,
			Workers:   cfg.Workers,
			OutputDir: cfg.OutputDir,
			Options:   cfg.AgentOptions(),
		}

		if len(batchFlags.throughput) > 0 {
			_, err := experiments.RunThroughputExperiment(config, batchFlags.throughput)
			return err
		}

		report, err := experiments.RunBatch(config)
		if err != nil {
			return err
		}
		printStandings(report.Standings)
		fmt.Printf("seed %d, results in %s\n", seed, report.Dir)
		return nil
	},
}

// parseMatchUps reads "a:b" pairs; none means every pairing.
func parseMatchUps(values []string) ([]experiments.MatchUp, error) {
	matchUps := []experiments.MatchUp{}
	for _, value := range values {
		a, b, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("match up %q: expected kind:kind", value)
		}
		kindA, err := agent.ParseKind(a)
		if err != nil {
			return nil, fmt.Errorf("match up %q: %w", value, err)
		}
		kindB, err := agent.ParseKind(b)
		if err != nil {
			return nil, fmt.Errorf("match up %q: %w", value, err)
		}
		matchUps = append(matchUps, experiments.MatchUp{A: kindA, B: kindB})
	}
	return matchUps, nil
}

func printStandings(standings []experiments.Standing) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "agent\tgames\twins\tlosses\tties\tpoints")
	for _, s := range standings {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n", s.Kind, s.Games, s.Wins, s.Losses, s.Ties, s.Points)
	}
	w.Flush()
}

func init() {
	batchCmd.Flags().StringVar(&batchFlags.name, "name", "batch", "experiment name, used as the output sub directory")
	batchCmd.Flags().StringSliceVar(&batchFlags.matchUps, "matchup", nil, "match up as kind:kind, repeatable (default every pairing)")
	batchCmd.Flags().IntVar(&batchFlags.games, "games", 0, "games per match up, overrides PERUDO_GAMES")
	batchCmd.Flags().IntVar(&batchFlags.rounds, "rounds", 0, "round budget, overrides PERUDO_ROUNDS")
	batchCmd.Flags().IntVar(&batchFlags.dice, "dice", 0, "dice per player, overrides PERUDO_DICE")
	batchCmd.Flags().Uint64Var(&batchFlags.seed, "seed", 0, "master seed, overrides PERUDO_SEED")
	batchCmd.Flags().IntVar(&batchFlags.workers, "workers", 0, "parallel games, overrides PERUDO_WORKERS")
	batchCmd.Flags().StringVar(&batchFlags.out, "out", "", "output directory, overrides PERUDO_OUTPUT_DIR")
	batchCmd.Flags().IntSliceVar(&batchFlags.throughput, "throughput", nil, "measure games per second for these worker counts instead")
	rootCmd.AddCommand(batchCmd)
}
