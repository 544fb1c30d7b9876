package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/portfolio-api/internal/application/account"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/infrastructure/awscfg"
	"github.com/portfolio-api/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedPassword string
	seedName     string
)

var rootCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account used to sign in to the panel",
	Long: `Creates an admin account with a bcrypt-hashed password in the accounts table.
Does nothing if an account with the same email already exists.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&seedEmail, "email", "", "admin email (or ADMIN_EMAIL env)")
	rootCmd.Flags().StringVar(&seedPassword, "password", "", "admin password, at least 8 characters (or ADMIN_PASSWORD env)")
	rootCmd.Flags().StringVar(&seedName, "name", "Super Admin", "display name")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if seedEmail == "" {
		seedEmail = cfg.AdminEmail
	}
	if seedPassword == "" {
		seedPassword = os.Getenv("ADMIN_PASSWORD")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	awsCfg, err := awscfg.Load(ctx, cfg)
	if err != nil {
		return err
	}
	client := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
	repo := dynamo.NewAccountRepo(client, cfg.DynamoTables.Accounts)

	acct, created, err := account.SeedAdmin(ctx, repo, account.SeedInput{
		Email:    seedEmail,
		Password: seedPassword,
		Name:     seedName,
	}, 0)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !created {
		log.Printf("Account %s already exists (role=%s), nothing to do", acct.Email, acct.Role)
		return nil
	}
	log.Printf("Admin %s created (id=%s)", acct.Email, acct.AccountID)
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
