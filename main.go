package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justbri/topmovies/config"
	"github.com/justbri/topmovies/database"
	"github.com/justbri/topmovies/handlers"
	"github.com/justbri/topmovies/models"
	"github.com/justbri/topmovies/services"
	"github.com/justbri/topmovies/shared/format"
	"github.com/justbri/topmovies/shared/logger"
	"github.com/justbri/topmovies/shared/server"
)

var dbURL string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "topmovies",
		Short:         "A personal ranked list of rated movies",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database path or postgres:// URL (overrides DATABASE_URL)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(deleteCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	return cfg, nil
}

// openCatalog connects to the configured database and makes sure the schema exists.
func openCatalog(ctx context.Context, cfg *config.Config) (*database.DB, *services.Catalog, error) {
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, services.NewCatalog(db), nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			logger.Init(cfg.Server.Environment, cfg.Server.Debug, nil)

			if !cfg.TMDB.HasCredentials() {
				return fmt.Errorf("TMDB_API_TOKEN or TMDB_API_KEY must be set")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, catalog, err := openCatalog(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			h, err := handlers.New(handlers.Deps{
				Catalog:      catalog,
				Metadata:     services.NewTMDBClient(cfg.TMDB),
				Sessions:     services.NewSessionStore(cfg.Server.SessionSecret, cfg.IsProduction()),
				ImageBaseURL: cfg.TMDB.ImageBaseURL,
			})
			if err != nil {
				return err
			}

			slog.Info("Starting topmovies",
				"addr", cfg.Addr(),
				"environment", cfg.Server.Environment,
				"database", string(db.Dialect))

			return server.Run(ctx, server.DefaultConfig(cfg.Addr()), h.Routes())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides PORT)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, _, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema ready (%s)\n", db.Dialect)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the ranked movie list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, catalog, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			movies, err := catalog.ListByRating(cmd.Context())
			if err != nil {
				return err
			}
			printRanked(cmd.OutOrStdout(), services.RankMovies(movies))
			return nil
		},
	}
}

func printRanked(w io.Writer, ranked []models.Movie) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No movies yet. Add one with 'topmovies serve'.")
		return
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		m := ranked[i]
		fmt.Fprintf(w, "%3d. %-40s %4.1f  (id %d)\n", m.Ranking, format.Preview(m.Title, 37), m.Rating, m.ID)
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a movie by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, catalog, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := catalog.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie %d\n", id)
			return nil
		},
	}
}
