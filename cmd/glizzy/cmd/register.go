package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dogpound/glizzy/discord"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Install the global slash commands",
	Long: `Overwrite the application's global command set with the bot's
commands: /hotdog, /protest, /leaderboard, /stats.

Requires DISCORD_APP_ID and DISCORD_BOT_TOKEN. Run once per deploy;
Discord propagates global commands within an hour.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Discord.AppID == "" || cfg.Discord.BotToken == "" {
		return fmt.Errorf("discord app id and bot token are required to register commands")
	}

	client := &discord.Client{
		AppID:   cfg.Discord.AppID,
		Token:   cfg.Discord.BotToken,
		BaseURL: cfg.Discord.APIBase,
	}

	cmds := discord.AllCommands()
	if err := client.InstallGlobalCommands(cmd.Context(), cmds); err != nil {
		return fmt.Errorf("install commands: %w", err)
	}

	for _, c := range cmds {
		fmt.Printf("registered /%s\n", c.Name)
	}
	return nil
}
