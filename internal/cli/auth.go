package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cardiq/internal/auth"
	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/spf13/cobra"
)

func newSignupCmd(st *state) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account on this device and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()

			var err error
			if username == "" {
				if username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, "Password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			confirm, err := GetPassword(a.reader, "Confirm password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(confirm)

			if string(password) != string(confirm) {
				return fmt.Errorf("passwords do not match: %w", common.ErrInvalidInput)
			}

			sess, err := a.authService.SignUp(ctx, username, email, string(password))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome to CardIQ, %s!\n", sess.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLoginCmd(st *state) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			ctx := cmd.Context()

			var err error
			if email == "" {
				if email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
					return err
				}
			}

			password, err := GetPassword(a.reader, "Password", a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			sess, err := a.authService.Login(ctx, email, string(password))
			if errors.Is(err, common.ErrUnauthorized) {
				return errBadCredentials
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newLogoutCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the login stored on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.app.authService.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(st.app.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := st.app
			sess, err := a.session(cmd.Context())
			if errors.Is(err, common.ErrUnauthorized) {
				fmt.Fprintln(a.out, "Not logged in.")
				return nil
			}
			if err != nil {
				return err
			}
			printSession(a, sess)
			return nil
		},
	}
}

func printSession(a *App, sess *auth.Session) {
	fmt.Fprintf(a.out, "%s <%s>, logged in since %s\n",
		sess.Username, sess.Email, sess.IssuedAt.Local().Format("2006-01-02 15:04"))
}
