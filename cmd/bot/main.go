package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"comeback-digest-bot/internal/comeback"
	"comeback-digest-bot/internal/config"
	"comeback-digest-bot/internal/mailbox"
	"comeback-digest-bot/internal/notifier"
	"comeback-digest-bot/internal/processor"
	"comeback-digest-bot/internal/state"
)

const runTimeout = 4 * time.Minute

type server struct {
	pipeline processor.Runner
}

func main() {
	once := flag.Bool("once", false, "run a single digest batch and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	mb := mailbox.New(cfg.IMAPServer, cfg.IMAPUser, cfg.IMAPPassword, cfg.SenderFilter, cfg.DownloadDir)
	fetcher := comeback.New(cfg.ComebackAPIURL, cfg.SessionID, cfg.APIPageSize)
	store := state.New(cfg.StateFilePath)
	sender := notifier.New(cfg.TelegramBotToken, cfg.TelegramChatID)
	pipeline := processor.New(mb, fetcher, store, sender)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := pipeline.Run(ctx); err != nil {
			slog.Error("Digest run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := &server{pipeline: pipeline}
	mux := http.NewServeMux()
	mux.HandleFunc("/run", srv.runHandler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}

// runHandler triggers a batch asynchronously so the scheduler's HTTP
// call is not blocked by mailbox, API, and Telegram round-trips.
func (s *server) runHandler(w http.ResponseWriter, r *http.Request) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("Panic in digest run", "panic", rec)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if err := s.pipeline.Run(ctx); err != nil {
			slog.Error("Digest run failed", "error", err)
		}
	}()

	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "Digest run started.")
}
