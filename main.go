package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goita-server/api"
	"goita-server/config"
	"goita-server/loghandler"
	"goita-server/matchmaking"
	"goita-server/storage"
	"goita-server/ws"
)

var (
	configFile string
	port       int
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "goita-server",
	Short: "Host-authoritative Goita game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			slog.Info("no .env file found; using environment variables", "tag", "config")
		}

		cfg := config.Load(configFile)
		if cmd.Flags().Changed("port") {
			cfg.WSPort = port
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}
		slog.SetDefault(slog.New(loghandler.New(os.Stderr, cfg.LogFormat, cfg.SlogLevel())))

		return run(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a JSON config file (default config.json)")
	rootCmd.Flags().IntVar(&port, "port", 0, "listen port, overrides WS_PORT")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: compact or pretty")
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AuthBaseURL == "" {
		slog.Info("AUTH_BASE_URL is not set; join tokens are ignored", "tag", "auth")
	} else {
		slog.Info("join tokens validated", "tag", "auth", "base_url", cfg.AuthBaseURL)
	}
	slog.Info("configuration", "tag", "config",
		"port", cfg.WSPort, "winning_score", cfg.WinningScore, "max_name_length", cfg.MaxNameLength, "action_buffer", cfg.ActionBuffer)

	// History store (optional: only when DATABASE_URL is set)
	var history storage.HistoryStore
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect history store: %w", err)
	}
	if store != nil {
		history = store
		defer store.Close()
	} else {
		slog.Info("DATABASE_URL is not set; game history is not persisted", "tag", "storage")
	}

	rooms := matchmaking.NewRegistry(cfg, history)

	hub := ws.NewHub(cfg, rooms)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	api.NewHandler(cfg, history, rooms).Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WSPort),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Goita server listening", "tag", "server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down", "tag", "server", "rooms", rooms.Len())
	rooms.Shutdown(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
