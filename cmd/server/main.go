package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"bbc.edu.in/college-chatbot/internal/api"
	"bbc.edu.in/college-chatbot/internal/auth"
	"bbc.edu.in/college-chatbot/internal/config"
	"bbc.edu.in/college-chatbot/internal/core"
	"bbc.edu.in/college-chatbot/internal/metrics"
	"bbc.edu.in/college-chatbot/internal/store"
	"bbc.edu.in/college-chatbot/pkg/logging"
)

type app struct {
	cfg       config.Config
	logger    *logging.Logger
	db        *store.SQLiteStore
	completer core.Completer
	resolver  *core.Resolver
	chat      *core.ChatService
	tokens    *auth.TokenIssuer
}

func newApp(ctx context.Context, registry prometheus.Registerer) (*app, error) {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger.Logger)

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	adminHash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := db.Seed(ctx, store.AdminSeed{Username: cfg.AdminUsername, Email: cfg.AdminEmail, PasswordHash: adminHash}, logger.Logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	completer, err := core.NewCompleter(ctx, cfg, logger.Logger)
	switch {
	case errors.Is(err, core.ErrUnavailable):
		logger.Info("completion API key not found, using fallback responses only")
		completer = nil
	case err != nil:
		logger.Warn("failed to initialize completion client, using fallback responses only", "error", err)
		completer = nil
	default:
		logger.Info("completion API key found, AI integration enabled", "backend", fmt.Sprint(completer))
	}

	opts := []core.ResolverOption{core.WithLogger(logger.Logger)}
	if registry != nil {
		opts = append(opts, core.WithMetrics(metrics.NewResolverMetrics(registry)))
	}
	resolver := core.NewResolver(db, completer, core.DefaultFallbackTable(), opts...)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		completer: completer,
		resolver:  resolver,
		chat:      core.NewChatService(db, resolver, completer, tokens, logger.Logger),
		tokens:    tokens,
	}, nil
}

func (a *app) Close() {
	if closer, ok := a.completer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("failed to close completion client", "error", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "college-chatbot",
		Short:         "BBC College enquiry chatbot",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newAskCmd(), newDiagnoseCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Resolve one message and print the reply without storing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.resolver.Resolve(ctx, strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", res.Source, res.Reply)
			return nil
		},
	}
}

func newDiagnoseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Check the completion service and print the fallback demo answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOrBackground(cmd.Context())
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.chat.CheckCompletion(ctx))
			fmt.Fprintln(out)
			for _, d := range a.chat.FallbackDemo() {
				fmt.Fprintf(out, "Q: %s\nA: %s\n\n", d.Question, d.Answer)
			}
			return nil
		},
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func runServe(ctx context.Context) error {
	ctx = contextOrBackground(ctx)
	a, err := newApp(ctx, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	apiHandler := api.NewAPIHandler(a.chat, a.tokens, a.logger.Logger)
	router := api.NewRouter(apiHandler, prometheus.DefaultGatherer)

	serverAddr := fmt.Sprintf(":%s", a.cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.CompletionTimeout + 30*time.Second, // completion calls can take time
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		a.logger.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("could not listen on %s: %w", serverAddr, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("server exited gracefully")
	return nil
}
