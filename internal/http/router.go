package http

import (
	"net/http"

	"hgl-backend/internal/handlers"
	"hgl-backend/internal/middleware"
	"hgl-backend/internal/monitoring"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	intakeHandler *handlers.IntakeHandler,
	certificateHandler *handlers.CertificateHandler,
	recordHandler *handlers.RecordHandler,
	reportHandler *handlers.ReportHandler,
	backupHandler *handlers.BackupHandler,
	healthHandler *handlers.HealthHandler,
	feed *monitoring.RecordFeed,
) *mux.Router {
	r := mux.NewRouter()

	// Runs inside the router so metrics are labelled by route template.
	r.Use(middleware.MetricsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Intake
	api.HandleFunc("/intake", intakeHandler.CreateIntake).Methods("POST")
	api.HandleFunc("/intake", intakeHandler.ListIntake).Methods("GET")

	// Certificates
	api.HandleFunc("/certificates/next", certificateHandler.NextJob).Methods("GET")
	api.HandleFunc("/certificates", certificateHandler.IssueCertificate).Methods("POST")
	api.HandleFunc("/certificates", certificateHandler.ListCertificates).Methods("GET")
	api.HandleFunc("/certificates/{jobNo}/pdf", certificateHandler.GetCertificatePDF).Methods("GET")
	api.HandleFunc("/certificates/{jobNo}/qr", certificateHandler.GetCertificateQR).Methods("GET")

	// Records
	api.HandleFunc("/records/dashboard", recordHandler.Dashboard).Methods("GET")
	api.HandleFunc("/records", recordHandler.ClearAll).Methods("DELETE")
	api.HandleFunc("/catalog", recordHandler.Catalog).Methods("GET")

	// Reports (bundle registered first so it is not taken as a kind)
	api.HandleFunc("/reports/bundle", reportHandler.GetBundle).Methods("GET")
	api.HandleFunc("/reports/{kind}/csv", reportHandler.GetCSV).Methods("GET")
	api.HandleFunc("/reports/{kind}/pdf", reportHandler.GetPDF).Methods("GET")

	// Backups
	api.HandleFunc("/backups", backupHandler.CreateBackup).Methods("POST")
	api.HandleFunc("/backups", backupHandler.ListBackups).Methods("GET")
	api.HandleFunc("/backups/restore", backupHandler.RestoreBackup).Methods("POST")

	// QR code target
	r.HandleFunc("/verify/{jobNo}", certificateHandler.Verify).Methods("GET")

	// Live record feed
	r.HandleFunc("/ws/records", feed.HandleWebSocket)

	// Health endpoints
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}
