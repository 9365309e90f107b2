package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/tenang/internal/cli"
	"github.com/hyperjump/tenang/internal/config"
	"github.com/hyperjump/tenang/internal/indexer"
	"github.com/hyperjump/tenang/internal/server"
	"github.com/hyperjump/tenang/internal/watcher"
	"github.com/hyperjump/tenang/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.yaml"

type rootOptions struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "tenang",
		Short: "Tenang wellness chat backend",
		Long: `Tenang answers wellness questions using a local knowledge folder and
external text-generation services, with a safety screen for emergency messages.

Environment variables:
  GOOGLE_API_KEY, OPENAI_API_KEY, HF_API_KEY   provider credentials
  GOOGLE_MODEL, OPENAI_MODEL, HF_MODEL         model overrides
  BOOKING_URL                                  link attached to booking replies
  PORT                                         HTTP port (default 3000)
  TENANG_DEBUG                                 enable debug logging`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServerCmd(opts),
		newIndexCmd(opts),
		newAskCmd(opts),
		newInitCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup loads config and builds the logger shared by every command.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Debug = cfg.Debug || o.debug
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func newServerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  "Builds the knowledge index once, then serves the chat and booking API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runServer(cfg, logger)
		},
	}
}

func runServer(cfg *config.Config, logger *zap.Logger) error {
	logger.Info("config loaded", zap.Bool("debug", cfg.Debug), zap.String("knowledge_dir", cfg.Knowledge.Dir))

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		return err
	}
	defer components.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuild(ctx, components.Indexer, logger)

	if cfg.Knowledge.Watch {
		w := watcher.NewWatcher(cfg.Knowledge.Dir, cfg.Knowledge.Extensions,
			func() { rebuild(ctx, components.Indexer, logger) },
			watcher.WithLogger(logger))
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := server.NewServer(
		components.Chat,
		components.Indexer,
		components.Store,
		components.Bookings,
		components.Refs,
		components.Router.Names(),
		cfg,
		logger,
	)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Stop(shutdownCtx)
}

// rebuild runs one index build, logging instead of failing so the server keeps
// answering (with an empty index) when no documents exist yet.
func rebuild(ctx context.Context, idx *indexer.Indexer, logger *zap.Logger) {
	if _, err := idx.Rebuild(ctx); err != nil {
		if errors.Is(err, indexer.ErrNoDocuments) {
			logger.Warn("no knowledge documents found; replies will have no context")
			return
		}
		logger.Error("indexing failed", zap.Error(err))
	}
}

func newIndexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build the knowledge index and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			components, err := initializeComponents(cfg, logger, false)
			if err != nil {
				return err
			}
			defer components.Close()

			snap, err := components.Indexer.Rebuild(cmd.Context())
			if err != nil {
				return err
			}
			cli.WriteIndexSummary(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask a single question without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			components, err := initializeComponents(cfg, logger, false)
			if err != nil {
				return err
			}
			defer components.Close()

			rebuild(cmd.Context(), components.Indexer, logger)
			resp, err := components.Chat.Reply(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return cli.WriteChatReply(cmd.OutOrStdout(), resp, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(cli.OutputText), "output format: text or json")
	return cmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			if err := config.Save(opts.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tenang version %s\n", version)
		},
	}
}
