package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agentdesk.io/internal/agency"
	"agentdesk.io/internal/auth"
	"agentdesk.io/internal/config"
	"agentdesk.io/internal/httpapi"
	"agentdesk.io/internal/obs"
	"agentdesk.io/internal/store/pg"
)

// Overridden at build time via -ldflags.
var (
	version = "0.1.0"
	commit  = "none"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("config: AGENTDESK_PG_DSN is required")
	}

	store, err := pg.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	tokens, err := auth.NewTokenService(cfg.AuthSecret, cfg.AuthIssuer)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	resolver, err := auth.NewResolver(tokens, store, auth.NewSessionAdapter(store))
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}
	staffSvc, err := auth.NewStaffService(store, auth.WithSessionTTL(cfg.StaffSessionTTL))
	if err != nil {
		log.Fatalf("staff service: %v", err)
	}
	agencySvc, err := agency.NewService(store)
	if err != nil {
		log.Fatalf("agency service: %v", err)
	}

	readyProbe := func(ctx context.Context) error {
		return store.DB().PingContext(ctx)
	}
	api := httpapi.New(resolver, staffSvc, agencySvc, readyProbe, version,
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSecond))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting agentdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
