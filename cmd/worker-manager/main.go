// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	commonaws "crm-insight-workers/internal/common/aws"
	"crm-insight-workers/internal/common/camunda"
	"crm-insight-workers/internal/common/config"
	"crm-insight-workers/internal/common/database"
	"crm-insight-workers/internal/common/logger"
	"crm-insight-workers/internal/common/observability"
	"crm-insight-workers/internal/store"

	// Scoring Workers (3)
	cdr "crm-insight-workers/internal/workers/scoring/classify-deal-risk"
	sc "crm-insight-workers/internal/workers/scoring/score-contact"
	sd "crm-insight-workers/internal/workers/scoring/score-deal"

	// Pipeline Workers (2)
	cda "crm-insight-workers/internal/workers/pipeline/compute-deal-attention"
	dda "crm-insight-workers/internal/workers/pipeline/detect-deal-alerts"

	// Notification Workers (2)
	dac "crm-insight-workers/internal/workers/notification/dispatch-alert-channel"
	sdd "crm-insight-workers/internal/workers/notification/send-daily-digest"

	// Data Access Workers (2)
	qcd "crm-insight-workers/internal/workers/data-access/query-crm-data"
	sce "crm-insight-workers/internal/workers/data-access/search-crm-entities"

	// Communication Workers (1)
	gfe "crm-insight-workers/internal/workers/communication/generate-followup-email"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	tracer, err := observability.NewTracer("worker-manager", cfg.Observability.JaegerEndpoint)
	if err != nil {
		zapLog.Fatal("tracer init failed", zap.Error(err))
	}
	defer tracer.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init backends ---
	// In demo mode the workers run against the seeded in-memory pipeline and
	// Postgres/Elasticsearch/Redis are never dialed.
	var (
		crmStore store.Store
		pg       *database.PostgresClient
		esClient *database.ElasticsearchClient
		redis    *database.RedisClient
	)

	if cfg.Insight.DemoMode {
		crmStore = store.NewDemoStore(time.Now().UTC())
		zapLog.Info("Demo mode enabled, using seeded in-memory store")
	} else {
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
		crmStore = store.NewPostgresStore(pg.DB)

		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init AWS clients ---
	var snsClient *commonaws.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		zapLog.Info("SNS client initialized")
	}

	var sesClient *commonaws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		zapLog.Info("SES client initialized")
	}

	// --- 1. Scoring Workers (3) ---
	if cfg.Workers[sd.TaskType].Enabled {
		handler := sd.NewHandler(
			&sd.Config{
				Timeout:  time.Duration(cfg.Workers[sd.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Duration(cfg.Insight.ScoreCacheTTL) * time.Second,
			},
			crmStore, redisOrNil(redis), log,
		)
		startWorker(zeebeClient, sd.TaskType, cfg.Workers[sd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sc.TaskType].Enabled {
		handler := sc.NewHandler(
			&sc.Config{
				Timeout:  time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
				CacheTTL: time.Duration(cfg.Insight.ScoreCacheTTL) * time.Second,
			},
			crmStore, redisOrNil(redis), log,
		)
		startWorker(zeebeClient, sc.TaskType, cfg.Workers[sc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cdr.TaskType].Enabled {
		handler := cdr.NewHandler(
			&cdr.Config{
				Timeout: time.Duration(cfg.Workers[cdr.TaskType].Timeout) * time.Millisecond,
			},
			crmStore, log,
		)
		startWorker(zeebeClient, cdr.TaskType, cfg.Workers[cdr.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Pipeline Workers (2) ---
	if cfg.Workers[cda.TaskType].Enabled {
		handler := cda.NewHandler(
			&cda.Config{
				Timeout: time.Duration(cfg.Workers[cda.TaskType].Timeout) * time.Millisecond,
			},
			crmStore, log,
		)
		startWorker(zeebeClient, cda.TaskType, cfg.Workers[cda.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[dda.TaskType].Enabled {
		handler := dda.NewHandler(
			&dda.Config{
				Timeout: time.Duration(cfg.Workers[dda.TaskType].Timeout) * time.Millisecond,
			},
			crmStore, log,
		)
		startWorker(zeebeClient, dda.TaskType, cfg.Workers[dda.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Notification Workers (2) ---
	if cfg.Workers[dac.TaskType].Enabled {
		var publisher dac.Publisher
		if snsClient != nil {
			publisher = snsClient
		}
		handler := dac.NewHandler(
			&dac.Config{
				Timeout:  time.Duration(cfg.Workers[dac.TaskType].Timeout) * time.Millisecond,
				TopicARN: cfg.Integrations.AWS.SNS.AlertTopicARN,
				Enabled:  cfg.Notifications.Alerts.Enabled,
			},
			publisher, log,
		)
		startWorker(zeebeClient, dac.TaskType, cfg.Workers[dac.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sdd.TaskType].Enabled {
		var sender sdd.EmailSender
		if sesClient != nil {
			sender = sesClient
		}
		handler := sdd.NewHandler(
			&sdd.Config{
				Timeout:    time.Duration(cfg.Workers[sdd.TaskType].Timeout) * time.Millisecond,
				FromEmail:  cfg.Notifications.Digest.FromEmail,
				Recipients: cfg.Notifications.Digest.Recipients,
				Enabled:    cfg.Notifications.Digest.Enabled,
			},
			crmStore, sender, log,
		)
		startWorker(zeebeClient, sdd.TaskType, cfg.Workers[sdd.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Data Access Workers (2) ---
	// Both need real backends; demo mode leaves them unregistered.
	if cfg.Workers[qcd.TaskType].Enabled && pg != nil {
		handler := qcd.NewHandler(
			&qcd.Config{
				Timeout: time.Duration(cfg.Workers[qcd.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qcd.TaskType, cfg.Workers[qcd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sce.TaskType].Enabled && esClient != nil {
		handler := sce.NewHandler(
			&sce.Config{
				Timeout:       time.Duration(cfg.Workers[sce.TaskType].Timeout) * time.Millisecond,
				DealsIndex:    cfg.Insight.SearchIndexes.Deals,
				ContactsIndex: cfg.Insight.SearchIndexes.Contacts,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, sce.TaskType, cfg.Workers[sce.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Communication Workers (1) ---
	if cfg.Workers[gfe.TaskType].Enabled {
		handler := gfe.NewHandler(
			&gfe.Config{
				Timeout:    time.Duration(cfg.Workers[gfe.TaskType].Timeout) * time.Millisecond,
				SenderName: "Equipo de Ventas",
			},
			crmStore, log,
		)
		startWorker(zeebeClient, gfe.TaskType, cfg.Workers[gfe.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// redisOrNil unwraps the shared Redis client; demo mode runs without one.
func redisOrNil(r *database.RedisClient) *goredis.Client {
	if r == nil {
		return nil
	}
	return r.Client
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
