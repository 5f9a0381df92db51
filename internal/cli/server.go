package cli

import (
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Control the game server container",
		Long: `Inspect and control the dedicated server's Docker container. Stop and
restart warn online players and force a world save first. These commands
require the daemon to be configured with a container name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serverStatus()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show container state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serverStatus()
		},
	})
	cmd.AddCommand(newServerActionCmd("start", "Start the container", "Server starting"))
	cmd.AddCommand(newServerActionCmd("stop", "Save the world and stop the container", "Server stopping"))
	cmd.AddCommand(newServerActionCmd("restart", "Save the world and restart the container", "Server restarting"))

	return cmd
}

func serverStatus() error {
	out := NewOutput(cfg.Output)

	var result ContainerResult
	if err := client.Get("/api/v1/server", &result); err != nil {
		out.PrintError(err)
		return err
	}

	out.Print(result)
	return nil
}

func newServerActionCmd(verb, short, confirmation string) *cobra.Command {
	return &cobra.Command{
		Use:   verb,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAction("/api/v1/server/"+verb, nil, confirmation)
		},
	}
}
