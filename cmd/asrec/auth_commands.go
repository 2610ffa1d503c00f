package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asrecorded/asrec/internal/api"
	"github.com/asrecorded/asrec/internal/config"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			if strings.TrimSpace(username) == "" {
				fmt.Fprint(out, "Username: ")
				line, err := readLine(in)
				if err != nil {
					return fmt.Errorf("read username: %w", err)
				}
				username = strings.TrimSpace(line)
			}

			fmt.Fprint(out, "Password: ")
			password, err := readPassword(cmd, in)
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			user, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %s", api.Message(err))
			}

			sess := config.Session{
				Username: user.Username,
				BaseURL:  ctx.configValue().APIBaseURL,
				Cookies:  config.CookiesFrom(client.Cookies()),
				SavedAt:  time.Now(),
			}
			if len(sess.Cookies) == 0 {
				return errors.New("login succeeded but the backend set no session cookie")
			}
			if err := config.SaveSession(sess); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			ctx.logger().Info("logged in", "user", user.Username, "api", sess.BaseURL)
			fmt.Fprintf(out, "Logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	return cmd
}

// readPassword reads without echo from a terminal, or a plain line
// otherwise so the command can be scripted.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	return readLine(in)
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil && !errors.Is(err, api.ErrUnauthenticated) {
				// The local session is cleared regardless.
				ctx.logger().Warn("logout request failed", "error", err)
			}
			if err := config.ClearSession(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if errors.Is(err, api.ErrUnauthenticated) {
				return errors.New("not logged in; run `asrec login` first")
			}
			if err != nil {
				return fmt.Errorf("whoami: %s", api.Message(err))
			}
			role := user.Role
			if role == "" {
				role = "-"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) at %s\n", user.Username, role, client.BaseURL())
			return nil
		},
	}
}
