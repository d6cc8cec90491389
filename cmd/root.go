package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wildperudo/config"
)

var (
	cfg      config.Config
	envFiles []string
	logLevel string

	tuning struct {
		challengeRate      float64
		challengeThreshold float64
		cautionThreshold   float64
	}
)

var rootCmd = &cobra.Command{
	Use:   "wildperudo",
	Short: "Wild Perudo simulator",
	Long: `Plays Wild Perudo, the dice bluffing game where ones are wild,
between statistical and opponent-modelling agents or against you.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(envFiles...)
		if err != nil {
			return err
		}
		override(cmd, "log-level", &loaded.LogLevel, logLevel)
		override(cmd, "challenge-rate", &loaded.ChallengeRate, tuning.challengeRate)
		override(cmd, "challenge-threshold", &loaded.ChallengeThreshold, tuning.challengeThreshold)
		override(cmd, "caution-threshold", &loaded.CautionThreshold, tuning.cautionThreshold)
		if err := loaded.Validate(); err != nil {
			return err
		}
		level, err := loaded.Level()
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides PERUDO_LOG_LEVEL")
	rootCmd.PersistentFlags().Float64Var(&tuning.challengeRate, "challenge-rate", 0, "random agent challenge rate, overrides PERUDO_CHALLENGE_RATE")
	rootCmd.PersistentFlags().Float64Var(&tuning.challengeThreshold, "challenge-threshold", 0, "failure probability the reasoning agents challenge above, overrides PERUDO_CHALLENGE_THRESHOLD")
	rootCmd.PersistentFlags().Float64Var(&tuning.cautionThreshold, "caution-threshold", 0, "predicted challenge probability the first-order agent stops raising above, overrides PERUDO_CAUTION_THRESHOLD")
}

// override replaces *dst with the flag value when the flag was set.
func override[T any](cmd *cobra.Command, name string, dst *T, value T) {
	if cmd.Flags().Changed(name) {
		*dst = value
	}
}
