package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/memorygame/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "memory",
	Short: "Matching-pairs memory game server",
	Long: `memory serves a single-player matching-pairs game over HTTP.

Run with no arguments to start the server
	memory

Apply database migrations only
	memory migrate

Print a freshly dealt board
	memory deal --pairs 6 --format yaml
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, dealCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
