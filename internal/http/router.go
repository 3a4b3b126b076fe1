package http

import (
	"net/http"

	"lactalog-backend/internal/handlers"
	"lactalog-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	transportHandler *handlers.TransportHandler,
	analysisHandler *handlers.AnalysisHandler,
	userHandler *handlers.UserHandler,
	clienteHandler *handlers.ClienteHandler,
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/auth/status", authHandler.Status).Methods("GET")

	// Protected API routes - Session
	sessionAPI := r.PathPrefix("/api/session").Subrouter()
	sessionAPI.Use(authMiddleware.Authenticate)
	sessionAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	sessionAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("", dashboardHandler.Summary).Methods("GET")

	// Protected API routes - Transports
	transportsAPI := r.PathPrefix("/api/transports").Subrouter()
	transportsAPI.Use(authMiddleware.Authenticate)
	transportsAPI.HandleFunc("", transportHandler.List).Methods("GET")
	transportsAPI.HandleFunc("", authMiddleware.RequireNonClient(http.HandlerFunc(transportHandler.Create)).ServeHTTP).Methods("POST")
	transportsAPI.HandleFunc("/{id}", transportHandler.Get).Methods("GET")
	transportsAPI.HandleFunc("/{id}", authMiddleware.RequireNonClient(http.HandlerFunc(transportHandler.Update)).ServeHTTP).Methods("PUT")
	transportsAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(transportHandler.Delete)).ServeHTTP).Methods("DELETE")
	transportsAPI.HandleFunc("/{id}/close", authMiddleware.RequireNonClient(http.HandlerFunc(transportHandler.Close)).ServeHTTP).Methods("PATCH")
	transportsAPI.HandleFunc("/{id}/reopen", authMiddleware.RequireAdmin(http.HandlerFunc(transportHandler.Reopen)).ServeHTTP).Methods("PATCH")
	transportsAPI.HandleFunc("/{id}/verify-anomaly", authMiddleware.RequireNonClient(http.HandlerFunc(transportHandler.VerifyAnomaly)).ServeHTTP).Methods("PATCH")
	transportsAPI.HandleFunc("/{id}/seize", authMiddleware.RequireAdmin(http.HandlerFunc(transportHandler.Seize)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Analyses
	analysesAPI := r.PathPrefix("/api/analyses").Subrouter()
	analysesAPI.Use(authMiddleware.Authenticate)
	analysesAPI.HandleFunc("", analysisHandler.List).Methods("GET")
	analysesAPI.HandleFunc("/{id}", analysisHandler.Detail).Methods("GET")
	analysesAPI.HandleFunc("/{id}", authMiddleware.RequireNonClient(http.HandlerFunc(analysisHandler.Update)).ServeHTTP).Methods("PUT")
	analysesAPI.HandleFunc("/{id}/close", authMiddleware.RequireNonClient(http.HandlerFunc(analysisHandler.Close)).ServeHTTP).Methods("PATCH")
	analysesAPI.HandleFunc("/{id}/reopen", authMiddleware.RequireAdmin(http.HandlerFunc(analysisHandler.Reopen)).ServeHTTP).Methods("PATCH")
	analysesAPI.HandleFunc("/{id}/verify-anomaly", authMiddleware.RequireNonClient(http.HandlerFunc(analysisHandler.VerifyAnomaly)).ServeHTTP).Methods("PATCH")
	analysesAPI.HandleFunc("/{id}/print", analysisHandler.Print).Methods("GET")

	// Protected API routes - Personnel (staff and driver accounts)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", authMiddleware.RequireNonClient(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireNonClient(http.HandlerFunc(userHandler.Create)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireNonClient(http.HandlerFunc(userHandler.Update)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(userHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Clientes
	clientesAPI := r.PathPrefix("/api/clientes").Subrouter()
	clientesAPI.Use(authMiddleware.Authenticate)
	clientesAPI.HandleFunc("", clienteHandler.List).Methods("GET")
	clientesAPI.HandleFunc("", authMiddleware.RequireNonClient(http.HandlerFunc(clienteHandler.Create)).ServeHTTP).Methods("POST")
	clientesAPI.HandleFunc("/{id}", authMiddleware.RequireNonClient(http.HandlerFunc(clienteHandler.Update)).ServeHTTP).Methods("PUT")
	clientesAPI.HandleFunc("/{id}", authMiddleware.RequireAdmin(http.HandlerFunc(clienteHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - BI report embed
	reportAPI := r.PathPrefix("/api/report").Subrouter()
	reportAPI.Use(authMiddleware.Authenticate)
	reportAPI.HandleFunc("", reportHandler.Embed).Methods("GET")

	// Health endpoint (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
