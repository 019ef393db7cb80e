// File: cmd/login.go
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autoapply/autoapply-cli/internal/apiclient"
	"github.com/autoapply/autoapply-cli/internal/observability"
	"github.com/autoapply/autoapply-cli/internal/store"
)

var loginFlags struct {
	email    string
	password string
	token    string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the backend and store the session locally",
	Long: `Login exchanges your credentials for a bearer token and saves it in the
local store, together with the identity decoded from the token. Pass
--token to store an existing token instead; it is validated against the
backend first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := observability.GetLogger()
		client := apiclient.New(cfg.API, logger)

		token := loginFlags.token
		if token == "" {
			email := loginFlags.email
			if email == "" {
				return fmt.Errorf("pass --email (or --token)")
			}
			password := loginFlags.password
			if password == "" {
				fmt.Fprint(os.Stderr, "Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			var err error
			token, err = client.Login(ctx, email, password)
			if err != nil {
				return err
			}
		} else {
			id, _ := apiclient.DecodeIdentity(token)
			valid, err := client.ValidateToken(ctx, token, id.UserID)
			if err != nil {
				return fmt.Errorf("failed to validate token: %w", err)
			}
			if !valid {
				return fmt.Errorf("token was rejected by the backend")
			}
		}

		identity, err := apiclient.DecodeIdentity(token)
		if err != nil {
			logger.Warn("Token carries no decodable identity", zap.Error(err))
		}
		if identity.Email == "" {
			identity.Email = loginFlags.email
		}

		path, err := cfg.StorePath()
		if err != nil {
			return err
		}
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SaveCredentials(ctx, token, identity.UserID, identity.Email); err != nil {
			return err
		}
		fmt.Println("Logged in.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfg.StorePath()
		if err != nil {
			return err
		}
		s, err := store.Open(path)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.ClearCredentials(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginFlags.email, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginFlags.password, "password", "", "account password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginFlags.token, "token", "", "store an existing bearer token instead of logging in")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
