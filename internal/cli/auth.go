package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/astrostore/internal/apiclient"
	"github.com/mmeshcher/astrostore/internal/session"
)

// LoginOptions содержит флаги команд login и register.
type LoginOptions struct {
	*RootOptions
	Password string
}

// NewLoginCommand создаёт команду входа.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login <login>",
		Short: "Sign in and keep the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, opts, opts.api, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewRegisterCommand создаёт команду регистрации. После регистрации пользователь сразу входит.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register <login>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, opts, session.AuthenticatorFunc(opts.api.Register), args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func signIn(cmd *cobra.Command, opts *LoginOptions, authn session.Authenticator, login string) error {
	creds := session.Credentials{Login: login, Password: opts.Password}

	return opts.withState(cmd.Context(), func(s *session.State) error {
		if err := s.Login(cmd.Context(), authn, creds); err != nil {
			switch {
			case errors.Is(err, apiclient.ErrUnauthorized):
				return errors.New("invalid login or password")
			case errors.Is(err, apiclient.ErrConflict):
				return fmt.Errorf("login %q is already taken", login)
			}
			return err
		}

		u := s.Session().User
		role := "customer"
		if u.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", u.Login, role)
		return nil
	})
}

// NewLogoutCommand создаёт команду выхода. Корзина сохраняется.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withState(cmd.Context(), func(s *session.State) error {
				if err := s.Logout(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

// NewWhoamiCommand создаёт команду, показывающую текущую сессию.
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withState(cmd.Context(), func(s *session.State) error {
				sess := s.Session()
				if !sess.IsAuthenticated {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, admin: %t)\n", sess.User.Login, sess.User.ID, sess.User.IsAdmin)
				return nil
			})
		},
	}
}
