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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/hadwinjiang/s3-signed-url/pkg/signedurl/api"
	"github.com/hadwinjiang/s3-signed-url/pkg/signedurl/config"
	"github.com/rs/cors"
)

const maxRequestBodyBytes = 1 << 20 // sign requests are tiny

func main() {
	// Load configuration from environment
	serverConfig, err := config.Load()
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	// Build service from configuration
	svc, err := serverConfig.BuildService()
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	signHandler := api.NewSignHandler(svc)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(signHandler),
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Signed URL server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"expiry_seconds", serverConfig.SignedURLExpiry)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// routes assembles the router: ambient middleware, health endpoints, and
// the signing endpoint mounted at /sign and /api/v1/sign.
func routes(signHandler *api.SignHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(limitRequestBody)

	routesHealthz(r)

	r.Mount("/sign", signHandler.Routes())
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/sign", signHandler.Routes())
	})

	// The endpoint performs no caller authentication, so CORS stays open.
	return cors.AllowAll().Handler(r)
}

func routesHealthz(r *chi.Mux) {
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Get("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
}

func limitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		next.ServeHTTP(w, r)
	})
}
