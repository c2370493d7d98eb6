// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/PoojithGuntaka/CivicConnect/cliparse"
	"github.com/PoojithGuntaka/CivicConnect/middleware"
	"github.com/PoojithGuntaka/CivicConnect/router"
)

const (
	Version = "0.1.0"
	appName = "civicconnect"

	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Civic engagement API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), askCmd(), analyzeCmd(), versionCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Flags are the server flags documented in package
cliparse (for example -p 3318 -provider gemini -redis redis://localhost:6379/0).`,
		// Server flags belong to cliparse so they stay usable without cobra.
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				if a == "-h" || a == "-help" || a == "--help" {
					return cmd.Help()
				}
			}
			cfg, err := cliparse.ParseFlags(args)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func askCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the civic assistant one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliparse.ParseFlags([]string{"-env-file", envFile})
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)

			app := newApp(cfg, nil)
			answer := app.assistant.Chat(cmd.Context(), strings.Join(args, " "), nil)
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load if present")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var envFile, seedPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the sentiment report for the seed issues as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := []string{"-env-file", envFile}
			if seedPath != "" {
				flags = append(flags, "-seed", seedPath)
			}
			cfg, err := cliparse.ParseFlags(flags)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)

			data, err := loadSeed(cfg)
			if err != nil {
				return err
			}

			app := newApp(cfg, nil)
			report := app.analyzer.Analyze(cmd.Context(), data.Issues)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load if present")
	cmd.Flags().StringVar(&seedPath, "seed", "", "Seed data YAML file (embedded default)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	}
}

func serve(cfg cliparse.Config) error {
	setupLogging(cfg.LogLevel)

	if cfg.UsingDevSalt {
		slog.Warn("SESSION_SALT not set, using the development salt")
	}
	if cfg.APIKey == "" {
		slog.Warn("no model API key configured, chat and sentiment will answer with fallbacks")
	}

	data, err := loadSeed(cfg)
	if err != nil {
		return err
	}

	cache, err := newSentimentCache(cfg)
	if err != nil {
		return err
	}
	if c, ok := cache.(interface{ Close() error }); ok {
		defer c.Close()
	}

	app := newApp(cfg, cache)
	issues, polls := newStores(data)

	// Create router
	mux := router.NewRouter(router.Deps{
		Issues:    issues,
		Polls:     polls,
		Chat:      app.registry,
		Sentiment: app.loader,
		Metrics:   app.metrics,
		Config:    cfg,
	})

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "provider", cfg.ModelProvider, "model", cfg.ModelName,
		"issues", issues.Len(), "redis", cfg.RedisURL != "")
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		return err
	}
	slog.Info("Server closed")
	return nil
}

func setupLogging(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
