package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/annotator/internal/config"
	"github.com/inamate/annotator/internal/discovery"
	"github.com/inamate/annotator/internal/imagesize"
	"github.com/inamate/annotator/internal/persist"
	"github.com/inamate/annotator/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		slog.Error("engine options", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := mux.NewRouter()

	// Persistence is optional; without a database sessions are scratch only.
	var (
		loader session.Loader
		sinks  session.SinkFactory
		async  *persist.AsyncSink
	)
	if cfg.DatabaseURL != "" {
		pool, err := persist.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		snapshots := persist.NewSnapshotStore(pool)
		if err := snapshots.EnsureSchema(ctx); err != nil {
			slog.Error("ensure schema", "error", err)
			os.Exit(1)
		}
		async = persist.NewAsyncSink(snapshots, 5*time.Second)
		loader, sinks = snapshots, async

		r.HandleFunc("/api/images/{imageId}/annotations/latest", persist.NewHandler(snapshots).Latest).Methods("GET")
	} else {
		slog.Warn("DATABASE_URL not set, annotations will not be persisted")
	}

	hub := session.NewHub(engineOpts, loader, sinks)
	go hub.Run()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/api/images/bounds", imagesize.Bounds).Methods("POST")

	origins := cfg.Origins()
	r.HandleFunc("/ws/session", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, origins)
	})

	var advertiser *discovery.Advertiser
	if cfg.MDNSEnabled {
		advertiser, err = discovery.Advertise(cfg.MDNSInstance, cfg.Port)
		if err != nil {
			slog.Warn("mDNS advertisement disabled", "error", err)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		if err := advertiser.Shutdown(); err != nil {
			slog.Warn("stop mDNS", "error", err)
		}

		hub.Stop()
		if async != nil {
			slog.Info("flushing pending snapshots...")
			async.Stop()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "persistence", async != nil)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, origins []string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := session.NewClient(hub, conn, clientID)
	if !hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
