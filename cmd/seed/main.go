package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"uprate/backend/database"
	"uprate/backend/models"
	"uprate/backend/services"
	"uprate/backend/store"
)

type adminFlags struct {
	name     string
	email    string
	password string
	inactive bool
}

func main() {
	root := &cobra.Command{
		Use:   "seed",
		Short: "Seed the uprate database",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if os.Getenv("DATABASE_URL") == "" {
				return errors.New("DATABASE_URL is required")
			}
			return nil
		},
	}

	var af adminFlags
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Create an admin console user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store) error {
				id, err := services.NewCredentials(st).Register(ctx, af.name, af.email, af.password, !af.inactive)
				if errors.Is(err, store.ErrConflict) {
					return fmt.Errorf("an admin with email %s already exists", af.email)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", af.email, id)
				return nil
			})
		},
	}
	f := adminCmd.Flags()
	f.StringVar(&af.name, "name", "", "Display name")
	f.StringVar(&af.email, "email", "", "Login email")
	f.StringVar(&af.password, "password", "", "Initial password")
	f.BoolVar(&af.inactive, "inactive", false, "Create the account disabled")
	_ = adminCmd.MarkFlagRequired("name")
	_ = adminCmd.MarkFlagRequired("email")
	_ = adminCmd.MarkFlagRequired("password")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert the Joe's Cafe demo business",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st store.Store) error {
				b, err := services.NewBusinesses(st, st).Create(ctx, DemoBusiness())
				if errors.Is(err, store.ErrConflict) {
					fmt.Fprintln(cmd.OutOrStdout(), "demo business already present")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s at /rate/%s\n", b.Name, b.Slug)
				return nil
			})
		},
	}

	root.AddCommand(adminCmd, demoCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func withStore(fn func(ctx context.Context, st store.Store) error) error {
	database.Connect(os.Getenv("DATABASE_URL"))
	defer database.Close()
	database.EnsureSchema()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return fn(ctx, store.NewPostgres(database.Pool))
}

// DemoBusiness is the sample cafe used in local setups.
func DemoBusiness() models.BusinessInput {
	return models.BusinessInput{
		Name:       "Joe's Cafe",
		Slug:       "joes-cafe",
		Type:       []string{"cafe"},
		GoogleLink: "https://www.google.com/maps/place/Joe's+Cafe/@40.7128,-74.0060,17z",
		Questions: []models.Question{
			{Question: "How was the coffee?", Answers: []string{"Excellent", "Good", "Average"}},
			{Question: "How was the service?", Answers: []string{"Fast and friendly", "Okay", "Slow"}},
		},
		ColorScheme: models.ColorOrange,
	}
}
