package cmd

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dogpound/glizzy/discord"
	"github.com/dogpound/glizzy/ledger"
	"github.com/dogpound/glizzy/protest"
	"github.com/dogpound/glizzy/server"
	"github.com/dogpound/glizzy/stats"
	"github.com/dogpound/glizzy/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactions webhook and read API",
	Long: `Start the HTTP server that receives Discord interaction webhooks
and serves the read-only /api endpoints over the same ledger.

Requires DISCORD_APP_ID and DISCORD_PUBLIC_KEY (env, .env file, or
config file). DISCORD_BOT_TOKEN is optional but without it resolved
protests cannot rewrite their original channel message.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Discord.PublicKey == "" {
		return fmt.Errorf("discord public key is required to verify webhooks")
	}

	pubKey, err := discord.ParsePublicKey(cfg.Discord.PublicKey)
	if err != nil {
		return fmt.Errorf("discord public key: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("reference zone: %w", err)
	}

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	svc := ledger.NewService(st)

	var client *discord.Client
	if cfg.Discord.BotToken != "" {
		client = &discord.Client{
			AppID:   cfg.Discord.AppID,
			Token:   cfg.Discord.BotToken,
			BaseURL: cfg.Discord.APIBase,
		}
	} else {
		log.Println("no bot token configured; protest messages will not be edited after a second")
	}

	srv := server.New(server.Options{
		Store:     st,
		Ledger:    svc,
		Stats:     stats.NewEngine(st, loc),
		Protests:  protest.NewCoordinator(svc),
		Client:    client,
		PublicKey: pubKey,
		DBPath:    st.Path(),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, cfg.Server.Addr)
}
