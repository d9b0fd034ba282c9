package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"ethidata/internal/api"
	"ethidata/internal/config"
	"ethidata/internal/database"
	"ethidata/internal/metrics"
	"ethidata/internal/notify"
	"ethidata/internal/ratelimit"
	"ethidata/internal/rules"
	"ethidata/internal/services"
	"ethidata/internal/store"
	"ethidata/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[STARTUP] Failed to load configuration: %v", err)
	}

	log.Printf("[STARTUP] Starting %s v%s", cfg.App.Name, cfg.App.Version)

	if err := database.Init(); err != nil {
		log.Fatalf("[STARTUP] Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	uploads, err := upload.NewService(&cfg.Upload)
	if err != nil {
		log.Fatalf("[STARTUP] Failed to initialize upload storage: %v", err)
	}

	emailService := notify.NewEmailService(&cfg.Email)
	if emailService.IsEnabled() {
		log.Println("[STARTUP] Email service enabled")
	} else {
		log.Println("[STARTUP] Email service disabled, messages will be logged")
	}
	notifier := notify.NewNotifier(emailService, cfg.Email.TeamEmail)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.New(counterStore(ctx, cfg))

	st := store.New(db)
	engine := rules.NewEngine(db)

	server := api.New(cfg, api.Deps{
		Limiter:      limiter,
		Health:       services.NewHealthService(db),
		Contacts:     services.NewContactService(db, st, notifier),
		Applications: services.NewApplicationService(db, engine, st, uploads, notifier),
		Events:       services.NewEventService(db, engine, st, notifier),
		Resources:    services.NewResourceService(db, engine, st, notifier),
		Jobs:         services.NewJobService(db),
		Blog:         services.NewBlogService(db),
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", server.Handler())
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))))

	handler := securityHeaders(corsMiddleware(cfg, requestLogging(metrics.PrometheusMiddleware(mux))))

	addr := cfg.App.Host + ":" + cfg.App.Port
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[STARTUP] Listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[STARTUP] Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[SHUTDOWN] Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[SHUTDOWN] Forced shutdown: %v", err)
	}
	log.Println("[SHUTDOWN] Server stopped")
}

// counterStore picks the rate-limit backend: Redis when configured, so
// multiple nodes share budgets, otherwise an in-process map.
func counterStore(ctx context.Context, cfg *config.Config) ratelimit.CounterStore {
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("[STARTUP] Warning: Redis unreachable, falling back to in-memory rate limiting: %v", err)
		} else {
			log.Println("[STARTUP] Rate limiting backed by Redis")
			return ratelimit.NewRedisStore(rdb)
		}
	}

	mem := ratelimit.NewMemoryStore()
	mem.StartJanitor(ctx)
	return mem
}

// securityHeaders adds standard security headers to all responses
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware handles cross-origin requests per the configured origins
func corsMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	allowAll := len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			allowed := allowAll
			for _, o := range cfg.CORS.AllowedOrigins {
				if o == origin {
					allowed = true
					break
				}
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.CORS.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.CORS.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogging logs each request with method, path, status and duration
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.Printf("[HTTP] %s %s %d %v", r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
