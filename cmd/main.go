// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/config"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/database"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/generator"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/handler"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/logger"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository/memory"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/service"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/token"
	log "github.com/sirupsen/logrus"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "", "Path to an optional YAML configuration file")
}

type stores struct {
	events service.EventStore
	joins  service.JoinStore
	users  service.UserStore
	close  func()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := logger.Prepare(cfg.Logger); err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 1. Open storage ───────────────────────────────────────────────────
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.close()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	var gen service.ContentGenerator = generator.Disabled{}
	if cfg.AI.Enabled {
		gen = generator.New(cfg.AI)
	} else {
		log.Warn("ai generation disabled; aiAssistance requests will fail")
	}

	eventSvc := service.NewEventService(st.events, st.users, gen, time.Now)
	joinSvc := service.NewJoinService(st.joins, st.events, time.Now)
	userSvc := service.NewUserService(st.users, time.Now)
	tokens := token.NewService(cfg.Token.Secret, cfg.Token.TTL)

	h := handler.New(eventSvc, joinSvc, userSvc, tokens)

	// ── 3. Start server with graceful shutdown ────────────────────────────
	addr := net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, cfg),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).WithField("storage", cfg.Storage.Type).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown failed: %v", err)
		os.Exit(1) //nolint:gocritic
	}
	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Storage.Type {
	case config.StorageMemory:
		m := memory.NewStore()
		log.Warn("using in-memory storage; data is lost on restart")
		return &stores{events: m.Events(), joins: m.Joins(), users: m.Users(), close: func() {}}, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		pool, err := database.NewPool(connectCtx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(connectCtx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info("connected to PostgreSQL")
		return &stores{
			events: repository.NewEventRepository(pool),
			joins:  repository.NewJoinRepository(pool),
			users:  repository.NewUserRepository(pool),
			close:  pool.Close,
		}, nil
	}
}
