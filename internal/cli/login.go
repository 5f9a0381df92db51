package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the daemon",
		Long: `Log in to a running daemon with the admin password and store the
returned session token for later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(string(raw))
			}

			req := struct {
				Password string `json:"password"`
			}{Password: password}

			var result AuthResult
			if err := client.Post("/api/v1/login", req, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				out.PrintError(fmt.Errorf("failed to save token: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password (prompted if omitted)")

	return cmd
}
