package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mroshb/daymate/internal/calendar"
	"github.com/mroshb/daymate/internal/config"
	"github.com/mroshb/daymate/internal/database"
	"github.com/mroshb/daymate/internal/export"
	"github.com/mroshb/daymate/internal/handlers"
	"github.com/mroshb/daymate/internal/metrics"
	"github.com/mroshb/daymate/internal/middleware"
	"github.com/mroshb/daymate/internal/security"
	"github.com/mroshb/daymate/internal/services"
	"github.com/mroshb/daymate/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every subcommand needs once the environment is loaded.
type app struct {
	cfg *config.Config
}

func rootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	cmd := &cobra.Command{
		Use:           "daymate",
		Short:         "Shared calendars, meeting proposals and direct messages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil {
				log.Println("No .env file found, using system environment")
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.ValidateProductionSecurity(); err != nil {
				return fmt.Errorf("production security validation failed: %w", err)
			}

			logger.Init(cfg.LogLevel, cfg.AppEnv)
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load")

	cmd.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		userCmd(a),
		tokenCmd(a),
		exportCmd(a),
	)
	return cmd
}

// open connects and migrates.
func (a *app) open() (*gorm.DB, error) {
	db, err := database.Connect(a.cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func (a *app) services(db *gorm.DB) *services.Services {
	return services.New(db, services.LimitsFromConfig(a.cfg))
}

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}

			limiter := middleware.NewRateLimiter(a.cfg.RateLimitPerUser, a.cfg.RateLimitPerIP, a.cfg.GetRateLimitWindow())
			defer limiter.Stop()

			manager := handlers.NewHandlerManager(a.cfg, a.services(db), metrics.New(), limiter)
			server := &http.Server{
				Addr:              ":" + a.cfg.AppPort,
				Handler:           manager.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       time.Minute,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", "addr", server.Addr, "env", a.cfg.AppEnv)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			logger.Info("Shutting down gracefully...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}

			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			logger.Info("Server stopped")
			return nil
		},
	}
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.open()
			return err
		},
	}
}

func userCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var (
		displayName string
		friendOnly  bool
	)
	create := &cobra.Command{
		Use:   "create <username>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			svc := a.services(db)

			user, err := svc.Users.Register(cmd.Context(), args[0], displayName)
			if err != nil {
				return err
			}
			if friendOnly {
				if user, err = svc.Users.UpdateMeetingPolicy(cmd.Context(), user.ID, true); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", user.ID, user.Username)
			return nil
		},
	}
	create.Flags().StringVar(&displayName, "display-name", "", "Name shown to other users")
	create.Flags().BoolVar(&friendOnly, "friend-only", false, "Only accept meeting proposals from friends")

	cmd.AddCommand(create)
	return cmd
}

func tokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token <username>",
		Short: "Issue an API token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}

			user, err := a.services(db).Users.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			token, err := security.GenerateJWT(user.ID, user.Username, a.cfg.JWTSecret, a.cfg.GetTokenTTL())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var (
		month string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "export <username>",
		Short: "Write a month of a user's calendar to an .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if month == "" {
				month = calendar.Today(nil)
			}
			start, next, err := calendar.MonthRange(month)
			if err != nil {
				return err
			}

			db, err := a.open()
			if err != nil {
				return err
			}
			owner, entries, err := a.services(db).Availability.ListMonth(cmd.Context(), args[0], month)
			if err != nil {
				return err
			}

			if out == "" {
				out = fmt.Sprintf("%s-%s.xlsx", owner.Username, start[:7])
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			if err := export.WriteMonth(f, owner, start, next, entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", len(entries), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Any day of the month to export (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	return cmd
}
