package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hgl-backend/internal/config"
	"hgl-backend/internal/db"
	"hgl-backend/internal/handlers"
	"hgl-backend/internal/health"
	h "hgl-backend/internal/http"
	"hgl-backend/internal/middleware"
	"hgl-backend/internal/monitoring"
	"hgl-backend/internal/r2"
	"hgl-backend/internal/repositories"
	"hgl-backend/internal/services"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	driver := flag.String("driver", "", "Storage driver: sqlite, postgres, redis or memory (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := db.OpenStore(openCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	lab := cfg.LabProfile()
	feed := monitoring.NewRecordFeed()
	go feed.Run()
	defer feed.Close()

	// Initialize repositories and services
	recordRepo := repositories.NewRecordRepository(store)
	sequence := services.NewSequenceAllocator(recordRepo)
	intakeService := services.NewIntakeService(recordRepo, feed)
	certificateService := services.NewCertificateService(recordRepo, sequence, lab, feed)
	recordService := services.NewRecordService(recordRepo, sequence, lab, feed)
	reportService := services.NewReportService(recordRepo, lab)

	var bucket services.Bucket
	if cfg.BackupEnabled() {
		client, err := r2.New(ctx, cfg)
		if err != nil {
			log.Printf("[Backup] Disabled: %v", err)
		} else {
			bucket = client
		}
	}
	backupService := services.NewBackupService(recordRepo, bucket, cfg.Backup.Prefix)
	backupService.StartScheduler(cfg.Backup.Interval)
	defer backupService.Stop()

	// Health checks report disk usage where the data lives
	dataPath := "/"
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "sqlite" {
		dataPath = filepath.Dir(cfg.Storage.SQLitePath)
	}
	healthChecker := health.NewHealthChecker(store, cfg.Storage.Driver, dataPath)

	router := h.NewRouter(
		handlers.NewIntakeHandler(intakeService, recordService),
		handlers.NewCertificateHandler(certificateService, recordService, reportService),
		handlers.NewRecordHandler(recordService),
		handlers.NewReportHandler(reportService),
		handlers.NewBackupHandler(backupService),
		handlers.NewHealthHandler(healthChecker),
		feed,
	)

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.RequestLogger(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s (storage: %s)", addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
