package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wildperudo/agent"
	"wildperudo/engine"
	"wildperudo/game"
	"wildperudo/player"
)

var playFlags struct {
	name     string
	opponent string
	rounds   int
	dice     int
	seed     uint64
}

// playCmd seats a human at the terminal against one agent
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play against an agent at the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "rounds", &cfg.Rounds, playFlags.rounds)
		override(cmd, "dice", &cfg.Dice, playFlags.dice)
		override(cmd, "seed", &cfg.Seed, playFlags.seed)
		if err := cfg.Validate(); err != nil {
			return err
		}

		kind, err := agent.ParseKind(playFlags.opponent)
		if err != nil {
			return err
		}
		seed, err := cfg.ResolveSeed()
		if err != nil {
			return err
		}

		rng := game.NewRNG(seed)
		term := player.NewTerminal(os.Stdin, os.Stdout)
		opponent, err := agent.New(kind, string(kind), cfg.Dice, game.NewRNG(rng.Uint64()), cfg.AgentOptions()...)
		if err != nil {
			return err
		}
		human := agent.NewHuman(playFlags.name, cfg.Dice, term)

		// keep the log off the prompt
		session, err := engine.New([]game.Agent{human, opponent},
			engine.WithSeed(rng.Uint64()),
			engine.WithLogger(zerolog.Nop()),
			engine.WithHook(term),
		)
		if err != nil {
			return err
		}

		fmt.Printf("%s vs %s, %d rounds, seed %d\n", playFlags.name, kind, cfg.Rounds, seed)
		_, err = term.Play(session, cfg.Rounds)
		return err
	},
}

func init() {
	playCmd.Flags().StringVar(&playFlags.name, "name", "you", "your name at the table")
	playCmd.Flags().StringVar(&playFlags.opponent, "opponent", string(agent.KindFirstOrder), "opponent kind: random, zero, first or improved")
	playCmd.Flags().IntVar(&playFlags.rounds, "rounds", 0, "round budget, overrides PERUDO_ROUNDS")
	playCmd.Flags().IntVar(&playFlags.dice, "dice", 0, "dice per player, overrides PERUDO_DICE")
	playCmd.Flags().Uint64Var(&playFlags.seed, "seed", 0, "random seed, overrides PERUDO_SEED")
	rootCmd.AddCommand(playCmd)
}
