package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jking123456/gemini-ai-by-homer/internal/config"
	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
	"github.com/Jking123456/gemini-ai-by-homer/internal/format"
	"github.com/Jking123456/gemini-ai-by-homer/internal/memory"
	"github.com/Jking123456/gemini-ai-by-homer/internal/pipeline"
	"github.com/Jking123456/gemini-ai-by-homer/internal/provider"
	"github.com/Jking123456/gemini-ai-by-homer/internal/relay"
	"github.com/Jking123456/gemini-ai-by-homer/internal/telegram"
	"github.com/Jking123456/gemini-ai-by-homer/internal/webhook"
)

var (
	version    = "0.1.0"
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:   "geminibot",
		Short: "Telegram webhook bot relaying prompts to an AI generation service",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.geminibot/config.yaml, optional)")

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		RunE:  runServe,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("geminibot", version)
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)

	// The bot credential fails closed: without it the server still runs and
	// acknowledges webhooks, it just cannot send or resolve files.
	var sender domain.Sender
	var resolver domain.FileResolver
	tg, err := telegram.NewClient(telegram.ClientConfig{
		Token:   cfg.Telegram.Token,
		Timeout: cfg.Timeouts.Telegram(),
		Logger:  logger,
	})
	if err != nil {
		logger.Error("telegram client unavailable, running fail-closed", "err", err)
		disabled := telegram.NewDisabled(logger)
		sender, resolver = disabled, disabled
	} else {
		sender, resolver = tg, tg
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("memory store: %w", err)
	}

	gen, err := provider.NewFactory(cfg, logger).Get(cfg.Provider.Name)
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}

	pipe := pipeline.New(pipeline.Config{
		Store:    store,
		Provider: gen,
		Relay: relay.New(relay.Config{
			Resolver:  resolver,
			UploadURL: cfg.ImageHost.URL,
			Timeout:   cfg.Timeouts.Upload(),
			Logger:    logger,
		}),
		Formatter:       format.New(),
		Sender:          sender,
		Logger:          logger,
		GenerateTimeout: cfg.Timeouts.Generate(),
	})

	server := webhook.NewServer(webhook.Config{
		Port:    cfg.Server.Port,
		Path:    cfg.Server.WebhookPath,
		Handler: pipe,
		Sender:  sender,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

// loadConfig reads the config file when one exists and falls back to
// environment-only configuration otherwise.
func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		if configPath != "" {
			// An explicit --config that does not load is worth a loud warning.
			slog.Warn("config file not loaded, using environment", "path", path, "err", err)
		}
		return config.FromEnv()
	}
	return cfg
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newStore(cfg *config.Config, logger *slog.Logger) (domain.MemoryStore, error) {
	switch cfg.Memory.Backend {
	case "redis":
		return memory.NewRedisStore(cfg.Memory.RedisURL, cfg.Memory.Cap, logger)
	default:
		return memory.NewInMemoryStore(cfg.Memory.Cap), nil
	}
}
