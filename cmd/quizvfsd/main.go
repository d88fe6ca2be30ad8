// quizvfsd serves the quiz store and the sidebar tree of one workspace.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/mind-engage/quizvfs/internal/api/http"
	"github.com/mind-engage/quizvfs/internal/config"
	"github.com/mind-engage/quizvfs/internal/db"
	"github.com/mind-engage/quizvfs/internal/logging"
	"github.com/mind-engage/quizvfs/internal/metrics"
	"github.com/mind-engage/quizvfs/internal/quiz"
	"github.com/mind-engage/quizvfs/internal/storage"
	syncx "github.com/mind-engage/quizvfs/internal/sync"
	"github.com/mind-engage/quizvfs/internal/workspace"
)

func main() {
	cfg := config.FromEnv()

	if err := logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}); err != nil {
		panic("logging init error: " + err.Error())
	}
	defer logging.Sync()

	logging.Info("quizvfsd starting",
		zap.String("listen", cfg.HTTPAddr),
		zap.String("metrics", cfg.MetricsAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
		zap.String("workspace", cfg.WorkspaceID))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	openCtx, openCancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	openCancel()
	if err != nil {
		logging.Fatal("db open failed", zap.Error(err))
	}
	defer dbh.Close()

	quizzes := quiz.NewSQLStore(dbh, cfg.DBDriver)
	events := syncx.NewEventRepo(dbh)

	// --- Mirror ---
	mirror, err := openMirror(ctx, cfg)
	if err != nil {
		logging.Fatal("blob store init failed", zap.Error(err))
	}

	// --- Workspace ---
	sess := workspace.NewSession(cfg.WorkspaceID, workspace.Deps{
		Quizzes: quizzes,
		Trees:   workspace.NewSQLTreeStore(dbh),
		Mirror:  mirror,
		Events:  events,
	})
	if err := sess.Load(ctx); err != nil {
		logging.Fatal("workspace load failed", zap.Error(err))
	}
	if _, err := sess.Sync(ctx); err != nil {
		logging.Error("initial sync failed", zap.Error(err))
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Middleware, metrics.Middleware, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/quizzes", func(qr chi.Router) {
		api.MountQuizzes(qr, quizzes)
	})
	r.Route("/vfs", func(vr chi.Router) {
		api.MountVFS(vr, sess, events)
		vr.Route("/mirror", func(mr chi.Router) {
			api.MountMirror(mr, mirror, sess.MirrorKey())
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", readyHandler(dbh))

	// --- Metrics ---
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: metrics.Handler(),
		}
		go func() {
			logging.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logging.Info("shutting down...")
		cancel()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		_ = httpServer.Shutdown(shutCtx)
		if metricsServer != nil {
			_ = metricsServer.Close()
		}
	}()

	if cfg.SyncInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.SyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := sess.Sync(ctx); err != nil {
						logging.Error("periodic sync failed", zap.Error(err))
					}
				}
			}
		}()
	}

	logging.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("http server error", zap.Error(err))
	}
}

func openMirror(ctx context.Context, cfg config.Config) (storage.BlobStore, error) {
	switch cfg.BlobDriver {
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return storage.NewFSStore(cfg.BlobBasePath)
	}
}

func readyHandler(dbh *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := dbh.PingContext(ctx); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	}
}
