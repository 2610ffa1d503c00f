package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asrecorded/asrec/internal/api"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Upload a chapter workbook to the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			client, err := ctx.client()
			if err != nil {
				return err
			}
			msg, err := client.ImportExcel(cmd.Context(), f, path)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, notLoggedIn(err))
			}
			ctx.logger().Info("workbook imported", "path", path)
			if msg == "" {
				msg = "Imported " + path
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newRegisterCommand(ctx *commandContext) *cobra.Command {
	var username, role string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a backend account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role = strings.ToLower(strings.TrimSpace(role))
			if role != "tecnico" && role != "director" {
				return fmt.Errorf("role %q: must be tecnico or director", role)
			}

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
			if len(password) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			user, err := client.Register(cmd.Context(), api.Registration{Username: username, Password: password, Role: role})
			if err != nil {
				return fmt.Errorf("register: %s", api.Message(err))
			}
			ctx.logger().Info("user registered", "user", user.Username, "role", user.Role)
			fmt.Fprintf(out, "Registered %s (%s); run `asrec login` to start a session\n", user.Username, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", "tecnico", "Account role: tecnico or director")
	return cmd
}
