package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/sowmya-kancharla03/CuraCare/internal/adapters/repository"
	"github.com/sowmya-kancharla03/CuraCare/internal/config"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/domain"
	"github.com/sowmya-kancharla03/CuraCare/internal/core/services"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicctl",
		Short:         "CuraCare operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (*sql.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	config.SetupLogging(config.Logging{Level: "warn"}, "clinicctl")

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := repository.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "applied", name)
			}
			return nil
		},
	}
}

func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage the doctor catalogue and doctor accounts",
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a doctor to the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			specialty, _ := cmd.Flags().GetString("specialty")
			years, _ := cmd.Flags().GetInt("experience")
			rating, _ := cmd.Flags().GetFloat64("rating")
			image, _ := cmd.Flags().GetString("image-url")
			unavailable, _ := cmd.Flags().GetBool("unavailable")

			doctor := domain.Doctor{
				Name:            name,
				Specialty:       specialty,
				ExperienceYears: years,
				Rating:          rating,
				Available:       !unavailable,
			}
			if image != "" {
				doctor.ImageURL = &image
			}

			return withRegistration(cmd, func(ctx context.Context, reg *services.RegistrationService) error {
				created, err := reg.AddDoctor(ctx, doctor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "doctor %s created (%s)\n", created.ID, created.Name)
				return nil
			})
		},
	}
	addCmd.Flags().String("name", "", "Display name")
	addCmd.Flags().String("specialty", "", "Medical specialty")
	addCmd.Flags().Int("experience", 0, "Years of experience")
	addCmd.Flags().Float64("rating", 0, "Rating shown in the catalogue")
	addCmd.Flags().String("image-url", "", "Profile image URL")
	addCmd.Flags().Bool("unavailable", false, "Hide the doctor from booking")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("specialty")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			doctors, err := services.NewDoctorService(repository.NewSQLRepository(db)).ListDoctors(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSPECIALTY\tYEARS\tRATING\tAVAILABLE")
			for _, d := range doctors {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%t\n", d.ID, d.Name, d.Specialty, d.ExperienceYears, d.Rating, d.Available)
			}
			return w.Flush()
		},
	})

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Create a login for an existing doctor",
		RunE: func(cmd *cobra.Command, args []string) error {
			doctorID, _ := cmd.Flags().GetString("doctor-id")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			return withRegistration(cmd, func(ctx context.Context, reg *services.RegistrationService) error {
				user, err := reg.CreateDoctorAccount(ctx, doctorID, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %s linked to doctor %s\n", user.Email, doctorID)
				return nil
			})
		},
	}
	accountCmd.Flags().String("doctor-id", "", "Doctor to link the account to")
	accountCmd.Flags().String("email", "", "Login email")
	accountCmd.Flags().String("password", "", "Initial password (at least 6 characters)")
	_ = accountCmd.MarkFlagRequired("doctor-id")
	_ = accountCmd.MarkFlagRequired("email")
	_ = accountCmd.MarkFlagRequired("password")
	cmd.AddCommand(accountCmd)

	return cmd
}

func withRegistration(cmd *cobra.Command, fn func(context.Context, *services.RegistrationService) error) error {
	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewSQLRepository(db)
	return fn(cmd.Context(), services.NewRegistrationService(repo, repo))
}
