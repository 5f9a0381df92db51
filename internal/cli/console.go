package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newConsoleCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Show the command audit log",
		Long: `Show the daemon's command audit log: every console command sent to the
game server and the response it returned. Pass --follow to tail new
entries live.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if follow {
				if err := followConsole(); err != nil {
					out.PrintError(err)
					return err
				}
				return nil
			}

			var result struct {
				Entries []consoleEntry `json:"entries"`
			}
			if err := client.Get("/api/v1/console", &result); err != nil {
				out.PrintError(err)
				return err
			}

			for _, entry := range result.Entries {
				printConsoleEntry(entry)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Tail new entries live")

	return cmd
}

// consoleEntry is one audit log line as sent by the daemon
type consoleEntry struct {
	Time time.Time `json:"time"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
}

func followConsole() error {
	wsURL, err := consoleStreamURL(cfg.ServerURL, cfg.Token)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	for {
		var entry consoleEntry
		if err := conn.ReadJSON(&entry); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("stream closed: %w", err)
		}
		printConsoleEntry(entry)
	}
}

// consoleStreamURL turns the daemon's HTTP base URL into the websocket
// endpoint, passing the session token as a query parameter since websocket
// clients cannot set the Authorization header from every environment.
func consoleStreamURL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/console/stream"
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func printConsoleEntry(entry consoleEntry) {
	fmt.Printf("%s [%s] %s\n", entry.Time.Format("15:04:05"), entry.Kind, entry.Text)
}
