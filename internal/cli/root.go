package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "empadmin",
		Short: "Admin tool for Empyrion dedicated servers",
		Long: `empadmin manages an Empyrion dedicated server over its telnet console.

Run "empadmin serve" to start the admin daemon, which polls the server,
announces joins and leaves, and sends scheduled broadcasts. The other
commands talk to a running daemon over its JSON API.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load token from file if not provided via flag/env
			if err := cfg.LoadToken(); err != nil {
				return err
			}

			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Daemon URL (env: EMPADMIN_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Session token (env: EMPADMIN_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: EMPADMIN_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newEntitiesCmd())
	rootCmd.AddCommand(newSayCmd())
	rootCmd.AddCommand(newPMCmd())
	rootCmd.AddCommand(newKickCmd())
	rootCmd.AddCommand(newBanCmd())
	rootCmd.AddCommand(newUnbanCmd())
	rootCmd.AddCommand(newSaveCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newServerCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
