package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		var err error
		if email == "" {
			if email, err = prompt(in, out, "Email: "); err != nil {
				return err
			}
		}
		if password == "" {
			if password, err = prompt(in, out, "Password: "); err != nil {
				return err
			}
		}

		env, err := openClient(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.session.Login(cmd.Context(), api.Credentials{Email: email, Password: password}); err != nil {
			return fmt.Errorf("login: %s", api.Message(err, "Login failed. Please check your credentials."))
		}
		fmt.Fprintf(out, "Logged in as %s\n", env.session.Email())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openClient(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.session.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openClient(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()
		if err := env.requireLogin(); err != nil {
			return err
		}

		u, err := env.session.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("whoami: %s", api.Message(err, "could not fetch account"))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:    %s\n", u.Name)
		fmt.Fprintf(out, "Email:   %s\n", u.Email)
		fmt.Fprintf(out, "Joined:  %s\n", u.CreatedAt.Local().Format("Jan 2, 2006"))
		return nil
	},
}

// prompt reads one trimmed line from in.
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringP("email", "e", "", "Account email (prompted when empty)")
	loginCmd.Flags().StringP("password", "p", "", "Account password (prompted when empty)")
}
