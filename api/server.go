package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptotax/price-exporter/report"
)

// Default upper bound on one report request; a cold-cache year costs
// several chunked upstream calls with mandatory pauses between them.
const defaultRequestTimeout = 5 * time.Minute

// ReportGenerator abstracts the report service for the HTTP layer
type ReportGenerator interface {
	Generate(ctx context.Context, params report.Params) (*report.Result, error)
}

// HealthReporter exposes a service's upstream health
type HealthReporter interface {
	Healthy() bool
}

type Server struct {
	port           string
	reportService  ReportGenerator
	pricesService  HealthReporter
	ratesService   HealthReporter
	requestTimeout time.Duration
	server         *http.Server
}

func New(port string, reportService ReportGenerator, pricesService, ratesService HealthReporter) *Server {
	return &Server{
		port:           port,
		reportService:  reportService,
		pricesService:  pricesService,
		ratesService:   ratesService,
		requestTimeout: defaultRequestTimeout,
	}
}

func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/report", s.handleReport).Methods("GET")
	router.HandleFunc("/api/v1/report.csv", s.handleReportCSV).Methods("GET")

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)
	log.Println("Prometheus metrics available at /metrics endpoint")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}
