package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"lactalog-backend/internal/archive"
	"lactalog-backend/internal/auth"
	"lactalog-backend/internal/cache"
	"lactalog-backend/internal/config"
	"lactalog-backend/internal/handlers"
	"lactalog-backend/internal/health"
	h "lactalog-backend/internal/http"
	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/monitoring"
	"lactalog-backend/internal/session"
	"lactalog-backend/internal/upstream"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Upstream API client
	client := upstream.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second)
	log.Printf("[Upstream] API at %s", cfg.Upstream.BaseURL)

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	cache.InitRedis(cfg)
	defer cache.Close()

	// Session store and login manager
	jwtManager := auth.NewJWTManager(cfg)
	store := session.NewStore(cfg, client)
	sessions := session.NewManager(cfg, client, store, jwtManager)

	// Expire idle sessions in the background
	stop := make(chan struct{})
	defer close(stop)
	store.StartSweeper(5*time.Minute, stop)

	// Health checker
	healthChecker := health.NewHealthChecker(client)

	// Start internal monitoring server in background
	go monitoring.NewMonitoringServer(client, store, cfg.Server.MonitoringPort).Start()

	// Report archive (optional)
	uploader := archive.New(cfg)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(sessions)
	corsMiddleware := middleware.NewCORS(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(sessions)
	transportHandler := handlers.NewTransportHandler()
	analysisHandler := handlers.NewAnalysisHandler(uploader)
	userHandler := handlers.NewUserHandler()
	clienteHandler := handlers.NewClienteHandler()
	dashboardHandler := handlers.NewDashboardHandler()
	reportHandler := handlers.NewReportHandler(cfg)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		transportHandler,
		analysisHandler,
		userHandler,
		clienteHandler,
		dashboardHandler,
		reportHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
