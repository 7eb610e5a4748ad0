package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"athlete-network/config"
	"athlete-network/database"
	"athlete-network/logger"
	"athlete-network/models"
	"athlete-network/pkg/db/sqlite"
	"athlete-network/util"
	"athlete-network/util/api"
	"athlete-network/util/push"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "athlete-network",
		Short:        "Backend for the athlete social network",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration file")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newPruneCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				db, err := sqlite.ConnectAndMigrate(cfg.Database)
				if err != nil {
					return err
				}
				return db.Close()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				db, err := sqlite.Open(cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				return sqlite.Rollback(db)
			},
		},
	)
	return migrate
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter jobs and events when the catalogue is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := database.InitDB(cfg.Database); err != nil {
				return err
			}
			defer database.Close()

			jobs, events, err := models.SeedCatalogue(database.DB)
			if err != nil {
				return fmt.Errorf("seed catalogue: %w", err)
			}
			logger.Info.Printf("Seeded %d jobs and %d events", jobs, events)
			return nil
		},
	}
}

func newPruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete notifications older than the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := database.InitDB(cfg.Database); err != nil {
				return err
			}
			defer database.Close()

			n, err := models.NewNotificationService(database.DB).DeleteOldNotifications(days)
			if err != nil {
				return fmt.Errorf("prune notifications: %w", err)
			}
			logger.Info.Printf("Deleted %d notifications older than %d days", n, days)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "age in days after which notifications are deleted")
	return cmd
}

func runServe(ctx context.Context) error {
	logger.Info.Println("Initializing application...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := database.InitDB(cfg.Database); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	if err := util.InitSessions(cfg); err != nil {
		return fmt.Errorf("initialize sessions: %w", err)
	}

	notifier, err := push.New(ctx, cfg.Push)
	if err != nil {
		return fmt.Errorf("initialize push: %w", err)
	}
	api.SetPushNotifier(notifier)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, cfg)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true, // Required for cookies!
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("Server running on localhost:%s", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
