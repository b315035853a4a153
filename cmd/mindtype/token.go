package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/mindtype/internal/config"
	"github.com/jonathan/mindtype/internal/server"
	"github.com/jonathan/mindtype/internal/server/middleware"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin bearer token",
	Long:  "Signs a token with ADMIN_JWT_SECRET for the admin endpoints (e.g. POST /admin/catalog/reload).",
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenRole    string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Token subject, e.g. an operator name (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", middleware.RoleAdmin, "Role claim")

	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(tokenSubject, tokenRole)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
