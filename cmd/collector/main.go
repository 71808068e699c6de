package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	// Application
	applicationPort "github.com/dreschagin/android-perf-monitor/internal/application/port"
	"github.com/dreschagin/android-perf-monitor/internal/application/usecase"

	// Infrastructure
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/device"
	natsInfra "github.com/dreschagin/android-perf-monitor/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/android-perf-monitor/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/persistence/csvlog"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/persistence/postgres"
	"github.com/dreschagin/android-perf-monitor/internal/sampling"

	// Interfaces
	"github.com/dreschagin/android-perf-monitor/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/android-perf-monitor/pkg/config"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"

	_ "github.com/lib/pq"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.New(os.Getenv("LOG_LEVEL"))
	log.Info("Starting performance collector",
		"package", cfg.Device.AppPackage,
		"interval", cfg.Sampling.Interval.String(),
	)

	// 3. Записываем PID-файл для внешнего stop-скрипта
	pidPath := filepath.Join(cfg.Storage.LogDir, "collector.pid")
	if err := writePIDFile(pidPath); err != nil {
		log.Error("Failed to write PID file", err, "path", pidPath)
		os.Exit(1)
	}
	defer os.Remove(pidPath)

	// 4. Dependency Injection - Infrastructure Layer

	// Device executor
	adbExecutor := device.NewAdbExecutor(cfg.Device.Serial, cfg.Device.CommandTimeout)

	// Series repository (CSV журнал сессий)
	seriesRepo, err := csvlog.NewSeriesRepository(cfg.Storage.DataDir)
	if err != nil {
		log.Error("Failed to initialize series storage", err)
		os.Exit(1)
	}

	// 4.5. Postgres Sample Archive
	var sampleArchive applicationPort.SampleArchive
	if cfg.Database.Enabled {
		db, dbErr := sql.Open("postgres", cfg.Database.DSN())
		if dbErr != nil {
			log.Error("Failed to connect to database", dbErr)
			os.Exit(1)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

		// Проверяем подключение
		if pingErr := db.Ping(); pingErr != nil {
			log.Error("Failed to ping database", pingErr)
			os.Exit(1)
		}

		sampleArchive = postgres.NewPostgresSampleArchive(db)
		log.Info("Postgres sample archive initialized", "host", cfg.Database.Host)
	} else {
		log.Warn("Postgres sample archive is disabled")
	}

	// 4.6. NATS Event Publisher
	var eventPublisher applicationPort.EventPublisher
	if cfg.NATS.Enabled {
		publisherImpl, initErr := natsInfra.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			eventPublisher = publisherImpl
			defer eventPublisher.Close()
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// 5. Dependency Injection - Application Layer

	collectSampleUC := usecase.NewCollectSampleUseCase(
		adbExecutor,
		cfg.Device.AppPackage,
		log,
	)

	// 5.5. WebSocket Live Feed
	var notifier applicationPort.NotificationService
	var hub *wsInfra.Hub
	if cfg.LiveFeed.Enabled {
		hub = wsInfra.NewHub(log)
		notifier = hub
	} else {
		log.Warn("WebSocket live feed is disabled")
	}

	// Планировщик сессии сбора
	runner := sampling.NewRunner(
		collectSampleUC,
		seriesRepo,
		sampleArchive,  // Can be nil if Postgres disabled
		eventPublisher, // Can be nil if NATS disabled
		notifier,       // Can be nil if live feed disabled
		cfg.Sampling.Interval,
		log,
	)

	// 6. Запускаем фоновые процессы

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if hub != nil {
		go hub.Run()
		log.Info("WebSocket hub started")

		websocketHandler := handler.NewWebSocketHandler(hub, cfg.LiveFeed.AllowedOrigins, log)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", websocketHandler.HandleConnection)
		mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(runner.Snapshot())
		})

		server := &http.Server{
			Addr:    ":" + cfg.LiveFeed.Port,
			Handler: mux,
		}

		go func() {
			log.Info("Live feed server starting", "port", cfg.LiveFeed.Port)
			if srvErr := server.ListenAndServe(); srvErr != nil && srvErr != http.ErrServerClosed {
				log.Error("Live feed server failed", srvErr)
			}
		}()
		defer server.Close()
	}

	// 7. Обрабатываем сигналы ОС

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received, stopping collection...")
		cancel()
	}()

	// 8. Сессия сбора работает до отмены контекста

	if err := runner.Run(ctx); err != nil {
		log.Error("Collection session failed", err)
		os.Exit(1)
	}

	snapshot := runner.Snapshot()
	log.Info("Collector stopped gracefully",
		"samples", snapshot.SampleCount,
		"log", snapshot.LogPath,
	)
}

// writePIDFile записывает PID текущего процесса, создавая каталог при
// необходимости.
func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	pid := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pid+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	return nil
}
