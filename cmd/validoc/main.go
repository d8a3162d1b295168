// Entry point for the validoc HTTP service: email validation and
// PDF→CSV conversion behind one chi router.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hazyhaar/validoc/mailcheck"
	"github.com/hazyhaar/validoc/tabular"
)

const (
	serviceName    = "validoc"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	validator := mailcheck.New(mailcheck.Config{
		DNSTimeout: cfg.DNSTimeout,
		Logger:     logger,
	})
	pipeline := tabular.New(tabular.Config{
		MaxFileSize: cfg.MaxUploadMB * 1024 * 1024,
		Logger:      logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
	r.Get("/", handleIndex)

	validator.RegisterHTTP(r)
	pipeline.RegisterHTTP(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// handleIndex serves the API documentation payload.
func handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"endpoints": map[string]string{
			"POST /validate-email":        "Comprehensive email validation",
			"POST /validate-email-simple": "Simple format validation",
			"POST /convert-pdf-to-csv":    "Convert an uploaded PDF into rows (JSON or CSV)",
			"GET /pdf-to-csv-info":        "PDF conversion capabilities",
			"GET /health":                 "Health check",
			"GET /":                       "API documentation",
		},
		"usage": map[string]any{
			"validate-email": map[string]any{
				"method": "POST",
				"body":   map[string]string{"email": "user@example.com"},
				"response": map[string]any{
					"email": "user@example.com",
					"valid": true,
					"checks": map[string]bool{
						"format_valid":        true,
						"domain_exists":       true,
						"is_disposable":       false,
						"comprehensive_valid": true,
					},
					"errors": []string{},
				},
			},
			"convert-pdf-to-csv": map[string]any{
				"method": "POST",
				"form": map[string]string{
					"file":   "PDF payload (required)",
					"method": "auto | pdfplumber | tabula | pypdf2 (default auto)",
					"format": "json | csv (default json)",
				},
			},
		},
	})
}
