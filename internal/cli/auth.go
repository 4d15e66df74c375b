package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account and sign-in commands",
	}

	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthWalletCmd())
	cmd.AddCommand(newAuthMeCmd())

	return cmd
}

// signIn posts to an auth endpoint and saves the returned token
func signIn(cmd *cobra.Command, path string, req any) error {
	var result AuthResult
	if err := client.Post(path, req, &result); err != nil {
		return err
	}

	if err := cfg.SaveToken(result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	client.SetToken(result.Token)

	output(cmd).Print(result)
	return nil
}

func newAuthRegisterCmd() *cobra.Command {
	var name, email, pass, wallet string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/auth/register", map[string]string{
				"name":          name,
				"email":         email,
				"password":      pass,
				"walletAddress": wallet,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&pass, "pass", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Wallet address")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/auth/login", map[string]string{
				"email":    email,
				"password": pass,
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAuthWalletCmd() *cobra.Command {
	var signature string

	cmd := &cobra.Command{
		Use:   "wallet <address>",
		Short: "Sign in with a wallet address, creating the player on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/auth/wallet", map[string]string{
				"walletAddress": args[0],
				"signature":     signature,
			})
		},
	}

	cmd.Flags().StringVar(&signature, "signature", "", "Wallet signature")

	return cmd
}

func newAuthMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerResult
			if err := client.Get("/api/auth/me", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
