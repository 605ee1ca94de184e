package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dogpound/glizzy/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "glizzy",
	Short: "Hot dog ledger Discord bot",
	Long: `Glizzy tracks hot dog consumption for a Discord server.

Users log hot dogs with /hotdog, contest each other's claims with
/protest (a deduction lands only once a second user seconds it), and
view /leaderboard and /stats. Every change is an immutable row in a
SQLite event ledger; totals and statistics are always derived from it.

A small read-only HTTP API serves the same data for external consumers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(loadDotEnv)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (optional)")
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}
}

// loadConfig layers the optional config file under env overrides and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
