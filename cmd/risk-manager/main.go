// cmd/risk-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"credit-risk-workers/internal/api"
	"credit-risk-workers/internal/common/camunda"
	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/notify"
	"credit-risk-workers/internal/preferences"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/internal/search"
	"credit-risk-workers/internal/service"
	"credit-risk-workers/internal/store"

	da "credit-risk-workers/internal/workers/risk/delete-assessment"
	gah "credit-risk-workers/internal/workers/risk/get-assessment-history"
	la "credit-risk-workers/internal/workers/risk/list-assessments"
	pcr "credit-risk-workers/internal/workers/risk/predict-company-risk"
	pir "credit-risk-workers/internal/workers/risk/predict-individual-risk"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// openPreferences connects the session store. With preferences disabled it
// returns a nil store and never dials Redis.
func openPreferences(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (api.PreferenceStore, func(), error) {
	if !cfg.Preferences.Enabled {
		zapLog.Info("Session preferences disabled")
		return nil, func() {}, nil
	}

	rdb := database.NewRedis(cfg.Database.Redis)
	err := retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		_ = rdb.Close()
		return nil, func() {}, err
	}
	zapLog.Info("Redis connected successfully")
	return preferences.NewStore(rdb.Client, cfg.Preferences), func() { _ = rdb.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.Build(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.Output,
	})
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting risk manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("storageDriver", cfg.Storage.Driver),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Assessment storage ---
	var repo store.Repository
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		repo = store.NewMemoryRepository()
		zapLog.Warn("using in-memory assessment storage; data is lost on restart")
	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		if cfg.Database.Postgres.MigrateOnStart {
			if err := database.RunMigrations(cfg.Database.Postgres.GetURL()); err != nil {
				zapLog.Fatal("migrations failed", zap.Error(err))
			}
			zapLog.Info("Database migrations applied")
		}
		repo = store.NewPostgresRepository(pg.DB)
	}

	// --- Redis (session preferences) ---
	prefs, closePrefs, err := openPreferences(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer closePrefs()

	deps := service.Deps{
		Recorder:      metrics.Recorder{},
		Observability: obs,
	}

	// --- Elasticsearch (name suggestions) ---
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}

		index := search.NewIndex(esClient.Client, cfg.Search.Index, log)
		if err := index.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("search index setup failed", zap.Error(err))
		}
		deps.Search = index
		zapLog.Info("Elasticsearch connected successfully", zap.String("index", cfg.Search.Index))
	}

	// --- AWS alerts ---
	if cfg.Notifications.Enabled {
		notifier, err := notify.NewAWSAlertNotifier(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("alert notifier setup failed", zap.Error(err))
		}
		deps.Notifier = notifier
		zapLog.Info("High-risk alerts enabled",
			zap.Bool("sns", cfg.Notifications.SNS.TopicARN != ""),
			zap.Bool("ses", cfg.Notifications.SES.FromEmail != ""),
		)
	}

	engine := scoring.NewEngine(cfg.Scoring.ScorePrecision, cfg.Scoring.CreditScorePrecision)
	svc := service.NewAssessmentService(repo, engine, deps, log)
	validator := validation.MustNewValidator()

	// --- Zeebe workers ---
	var (
		zeebe   *camunda.Client
		workers []worker.JobWorker
	)
	if cfg.Camunda.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		workers = registerWorkers(zeebe, cfg, svc, validator, obs, log)
		zapLog.Info("Risk workers registered", zap.Int("count", len(workers)))
	}

	// --- REST API ---
	gin.SetMode(gin.ReleaseMode)
	apiServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: api.NewRouter(api.RouterDeps{
			Service:     svc,
			Preferences: prefs,
			Validator:   validator,
			Logger:      log,
			Version:     cfg.App.Version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("REST API listening", zap.String("addr", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("REST API server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	opsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.OpsPort),
		Handler:           opsMux(svc, zeebe),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", opsServer.Addr))
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	camunda.StopWorkers(workers, log)
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping REST API", zap.Error(err))
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	zapLog.Info("Risk manager stopped gracefully")
}

func registerWorkers(zeebe *camunda.Client, cfg *config.Config, svc *service.AssessmentService, validator *validation.Validator, obs *observability.Observability, log logger.Logger) []worker.JobWorker {
	client := zeebe.GetClient()
	var started []worker.JobWorker
	add := func(w worker.JobWorker) {
		if w != nil {
			started = append(started, w)
		}
	}
	timeout := func(taskType string, fallback time.Duration) time.Duration {
		if ms := config.GetWorkerConfig(cfg, taskType).Timeout; ms > 0 {
			return config.GetDuration(ms)
		}
		return fallback
	}

	{
		wc := pcr.LoadConfig()
		wc.Timeout = timeout(pcr.TaskType, wc.Timeout)
		h := pcr.NewHandler(wc, svc, validator, obs, log)
		add(camunda.StartWorker(client, pcr.TaskType, config.GetWorkerConfig(cfg, pcr.TaskType), h.Handle, log))
	}
	{
		wc := pir.LoadConfig()
		wc.Timeout = timeout(pir.TaskType, wc.Timeout)
		h := pir.NewHandler(wc, svc, validator, obs, log)
		add(camunda.StartWorker(client, pir.TaskType, config.GetWorkerConfig(cfg, pir.TaskType), h.Handle, log))
	}
	{
		wc := la.LoadConfig()
		wc.Timeout = timeout(la.TaskType, wc.Timeout)
		h := la.NewHandler(wc, svc, validator, obs, log)
		add(camunda.StartWorker(client, la.TaskType, config.GetWorkerConfig(cfg, la.TaskType), h.Handle, log))
	}
	{
		wc := gah.LoadConfig()
		wc.Timeout = timeout(gah.TaskType, wc.Timeout)
		h := gah.NewHandler(wc, svc, validator, obs, log)
		add(camunda.StartWorker(client, gah.TaskType, config.GetWorkerConfig(cfg, gah.TaskType), h.Handle, log))
	}
	{
		wc := da.LoadConfig()
		wc.Timeout = timeout(da.TaskType, wc.Timeout)
		h := da.NewHandler(wc, svc, validator, obs, log)
		add(camunda.StartWorker(client, da.TaskType, config.GetWorkerConfig(cfg, da.TaskType), h.Handle, log))
	}
	return started
}

func opsMux(svc *service.AssessmentService, zeebe *camunda.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := svc.Ping(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		if zeebe != nil {
			if err := zeebe.HealthCheck(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "workflow engine unavailable")
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
