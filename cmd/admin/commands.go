package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"submission-service/internal/factory"
	"submission-service/internal/service"
	"submission-service/internal/validation"
)

var (
	adminEmail    string
	adminPassword string
	timeout       time.Duration

	rootCmd = &cobra.Command{
		Use:          "submission-admin",
		Short:        "Operator tooling for the submission service",
		SilenceUsage: true,
	}

	bootstrapCmd = &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the single admin account if none exists yet",
		RunE:  runBootstrap,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the configured record store, limiter backend and event broker",
		RunE:  runHealth,
	}
)

var passwordUsage = fmt.Sprintf("admin password (%d to %d characters, at most %d bytes)",
	validation.PasswordMinLen, validation.PasswordMaxLen, validation.PasswordMaxBytes)

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for the command")

	bootstrapCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	bootstrapCmd.Flags().StringVar(&adminPassword, "password", "", passwordUsage)
	_ = bootstrapCmd.MarkFlagRequired("email")
	_ = bootstrapCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(bootstrapCmd, healthCmd)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	f, err := factory.NewFactory()
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"email": adminEmail, "password": adminPassword})
	if err != nil {
		return err
	}

	summary, err := f.ServiceFactory().AdminService().RegisterAdmin(ctx, body)
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			cmd.PrintErrf("  %s: %s\n", fe.Path, fe.Message)
		}
		return fmt.Errorf("invalid admin credentials")
	case errors.Is(err, service.ErrAdminExists):
		return fmt.Errorf("an admin account already exists, registration is closed")
	case err != nil:
		return err
	}

	cmd.Printf("Admin %s registered\n", summary.Email)
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	f, err := factory.NewFactory()
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	healthErrors := f.HealthCheck(ctx)
	if len(healthErrors) == 0 {
		cmd.Println("all backends healthy")
		return nil
	}
	names := make([]string, 0, len(healthErrors))
	for name := range healthErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd.PrintErrf("  %s: %v\n", name, healthErrors[name])
	}
	if err := f.Ready(ctx); err != nil {
		return fmt.Errorf("required backend unavailable")
	}
	return nil
}
