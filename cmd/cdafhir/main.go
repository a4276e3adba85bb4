package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/cdafhir/internal/cda"
	"github.com/ehr/cdafhir/internal/config"
	"github.com/ehr/cdafhir/internal/convert"
	"github.com/ehr/cdafhir/internal/server"
	"github.com/ehr/cdafhir/internal/store"
	"github.com/ehr/cdafhir/internal/terminology"
	"github.com/ehr/cdafhir/internal/validate"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cdafhir",
		Short: "C-CDA to FHIR document converter",
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func convertCmd() *cobra.Command {
	var (
		strict bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a C-CDA document to a FHIR bundle",
		Long: `Convert reads a C-CDA XML document from the given file (or stdin when
no file is given) and writes the converted FHIR document bundle as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger("warn")

			var (
				data []byte
				err  error
			)
			if len(args) == 1 {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			doc, err := cda.Parse(data)
			if err != nil {
				return fmt.Errorf("parse document: %w", err)
			}

			result, err := convert.Convert(doc, convert.Options{
				Validator: validate.NewChecker(),
				Strict:    strict,
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("convert document: %w", err)
			}

			for _, issue := range result.Issues {
				logger.Warn().
					Str("kind", string(issue.Kind)).
					Str("concept", issue.Concept).
					Str("path", issue.Path).
					Msg(issue.Detail)
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result.Bundle); err != nil {
				return fmt.Errorf("encode bundle: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on any conversion issue")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the bundle to a file instead of stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		logger.Warn().Msg("running in development mode, requests are not authenticated")
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	var vocab convert.Vocabulary
	if cfg.TerminologyURL != "" {
		overlay, err := terminology.FetchOverlay(ctx, terminology.Default(), cfg.TerminologyURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to fetch terminology overlay")
		}
		vocab = convert.DefaultVocabulary{Systems: overlay}
		logger.Info().Str("url", cfg.TerminologyURL).Msg("terminology overlay loaded")
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		pool, err := store.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		st = store.NewPostgres(pool)
		logger.Info().Msg("connected to database")
	}

	srv := server.New(server.Config{
		Addr:      cfg.Addr(),
		Dev:       cfg.IsDev(),
		JWTSecret: cfg.JWTSecret,
		Strict:    cfg.StrictMode,
		Persist:   cfg.PersistResults,
	}, st, validate.NewChecker(), vocab, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "migrations directory")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, pool, err := newMigrator(dir)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := migrator.Up(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("applied %d migrations\n", count)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, pool, err := newMigrator(dir)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := migrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied " + s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
			}
			return nil
		},
	}

	cmd.AddCommand(upCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

func newMigrator(dir string) (*store.Migrator, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required to run migrations")
	}

	pool, err := store.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return store.NewMigrator(pool, dir), pool, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cdafhir %s\n", version)
		},
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
