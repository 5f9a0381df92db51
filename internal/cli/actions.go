package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// postAction sends an action request and prints a confirmation.
func postAction(path string, body any, confirmation string) error {
	out := NewOutput(cfg.Output)

	var ack struct {
		OK bool `json:"ok"`
	}
	if err := client.Post(path, body, &ack); err != nil {
		out.PrintError(err)
		return err
	}

	out.PrintMessage(confirmation)
	return nil
}

func newSayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say <message>...",
		Short: "Broadcast a chat message to all players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				Message string `json:"message"`
			}{Message: strings.Join(args, " ")}

			return postAction("/api/v1/actions/say", body, "Message sent")
		},
	}
}

func newPMCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pm <name> <message>...",
		Short: "Send a private message to a player",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				Name    string `json:"name"`
				Message string `json:"message"`
			}{Name: args[0], Message: strings.Join(args[1:], " ")}

			return postAction("/api/v1/actions/pm", body, "Message sent to "+args[0])
		},
	}
}

func newKickCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "kick <name>",
		Short: "Kick a player from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				Name   string `json:"name"`
				Reason string `json:"reason,omitempty"`
			}{Name: args[0], Reason: reason}

			return postAction("/api/v1/actions/kick", body, "Kicked "+args[0])
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason shown to the player")

	return cmd
}

func newBanCmd() *cobra.Command {
	var duration string

	cmd := &cobra.Command{
		Use:   "ban <id>",
		Short: "Ban a player by ID",
		Long: `Ban a player by their numeric ID. The duration uses the game's own
notation, for example 30m, 2h or 7d. Unrecognised durations fall back
to one hour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				ID       string `json:"id"`
				Duration string `json:"duration,omitempty"`
			}{ID: args[0], Duration: duration}

			return postAction("/api/v1/actions/ban", body, "Banned "+args[0])
		},
	}

	cmd.Flags().StringVarP(&duration, "duration", "d", "", "Ban duration, e.g. 30m, 2h, 7d")

	return cmd
}

func newUnbanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unban <id>",
		Short: "Lift a ban by player ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := struct {
				ID string `json:"id"`
			}{ID: args[0]}

			return postAction("/api/v1/actions/unban", body, "Unbanned "+args[0])
		},
	}
}

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Force a world save",
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAction("/api/v1/actions/save", nil, "World saved")
		},
	}
}
