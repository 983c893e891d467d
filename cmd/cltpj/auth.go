package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cltpj/cltpj/internal/cli"
	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/session"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign out and check the current account",
	}
	cmd.AddCommand(authLoginCmd())
	cmd.AddCommand(authRegisterCmd())
	cmd.AddCommand(authGoogleCmd())
	cmd.AddCommand(authLogoutCmd())
	cmd.AddCommand(authStatusCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCredentialAuth(cmd.Context(), email, func(ctx context.Context, s *session.Store, email, secret string) error {
				return s.Login(ctx, email, secret)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func authRegisterCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCredentialAuth(cmd.Context(), email, func(ctx context.Context, s *session.Store, email, secret string) error {
				return s.Register(ctx, email, secret)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func runCredentialAuth(ctx context.Context, email string, auth func(context.Context, *session.Store, string, string) error) error {
	reader := cli.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadLine(ctx)
		if err != nil {
			return err
		}
		email = line
	}
	if email == "" {
		return common.NewUserError("An email address is required", nil)
	}

	fmt.Print("Senha: ")
	secret, err := reader.ReadLine(ctx)
	if err != nil {
		return err
	}
	if secret == "" {
		return common.NewUserError("A password is required", nil)
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sessions, err := newSessionStore(ctx, store)
	if err != nil {
		return err
	}

	if err := auth(ctx, sessions, email, secret); err != nil {
		if errors.Is(err, common.ErrAuthRejected) {
			fmt.Println(cli.FormatError("The server rejected these credentials."))
			return err
		}
		return err
	}

	fmt.Println(cli.FormatSuccess("Signed in as " + email))
	return nil
}

func authGoogleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg := gateway.GoogleConfig{
				ClientID:     viper.GetString("google.client_id"),
				ClientSecret: viper.GetString("google.client_secret"),
				ListenAddr:   viper.GetString("google.listen_addr"),
			}
			if err := cfg.Validate(); err != nil {
				return common.NewUserError("Google sign-in is not configured. Set google.client_id and google.client_secret", err)
			}

			fmt.Println("Opening the browser flow; approve access in the page that loads...")
			token, email, err := gateway.SignInWithGoogle(ctx, cfg)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := newSessionStore(ctx, store)
			if err != nil {
				return err
			}
			if err := sessions.LoginFromCallback(ctx, token, email, "google"); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Signed in as " + email))
			return nil
		},
	}
}

func authLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := newSessionStore(ctx, store)
			if err != nil {
				return err
			}
			if err := sessions.Logout(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Signed out."))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := newSessionStore(ctx, store)
			if err != nil {
				return err
			}

			sess := sessions.Current()
			if sess == nil {
				fmt.Println(cli.FormatWarning("Not signed in. Simulations will run anonymously."))
				return nil
			}

			label := sess.Identity.Email
			if label == "" {
				label = sess.Identity.ID
			}
			provider := sess.Identity.Provider
			if provider == "" {
				provider = "email"
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Signed in as %s (via %s)", label, provider)))
			return nil
		},
	}
}
