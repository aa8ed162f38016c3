package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/noah-isme/employee-admin-client/internal/models"
)

func (c *cli) loginCmd() *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				password, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = password
			}
			user, err := c.app.auth.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password, prompted for when omitted")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var (
		req  models.RegisterRequest
		role string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				password, err := readSecret(cmd, "Password: ")
				if err != nil {
					return err
				}
				req.Password = password
			}
			req.Role = models.UserRole(strings.ToUpper(role))
			user, err := c.app.auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password, prompted for when omitted")
	cmd.Flags().StringVar(&role, "role", string(models.RoleEmployee), "ADMIN or EMPLOYEE")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.gate.Guard(cmd.Context(), func(user models.User) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\t%s\t%s\n", user.ID, user.Email, user.Role)
				expiry, ok, err := c.app.session.TokenExpiry(cmd.Context())
				if err == nil && ok {
					fmt.Fprintf(out, "token expires %s\n", expiry.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
