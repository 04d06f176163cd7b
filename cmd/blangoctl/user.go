// Copyright (c) 2026 Blango. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/blango/internal/users/auth"
)

// authService builds an auth service limited to accounts and API tokens.
func authService(pool *pgxpool.Pool) *auth.Service {
	return auth.NewService(auth.NewUserRepository(pool), auth.NewTokenRepository(pool), nil, nil, auth.Lifetimes{}, logger)
}

var userInput auth.CreateUserInput

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		user, err := authService(pool).CreateUser(cmd.Context(), userInput)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s> staff=%t\n", user.ID, user.Email, user.IsStaff)
		return nil
	},
}

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Print a user's API token, creating it if needed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		service := authService(pool)
		user, err := service.FindUserByEmail(cmd.Context(), tokenEmail)
		if err != nil {
			return err
		}

		key, err := service.TokenForUser(cmd.Context(), user)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	flags := userCreateCmd.Flags()
	flags.StringVar(&userInput.Email, "email", "", "login email (required)")
	flags.StringVar(&userInput.Password, "password", "", "initial password (required)")
	flags.StringVar(&userInput.FirstName, "first-name", "", "first name")
	flags.StringVar(&userInput.LastName, "last-name", "", "last name")
	flags.BoolVar(&userInput.IsStaff, "staff", false, "grant staff rights")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)

	tokenIssueCmd.Flags().StringVar(&tokenEmail, "email", "", "user email (required)")
	_ = tokenIssueCmd.MarkFlagRequired("email")
	tokenCmd.AddCommand(tokenIssueCmd)
}
