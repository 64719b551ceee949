package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/cryptotax/price-exporter/calendar"
	"github.com/cryptotax/price-exporter/coingecko"
	"github.com/cryptotax/price-exporter/config"
	"github.com/cryptotax/price-exporter/report"
)

// parseReportParams extracts and validates the three report inputs from
// the query string.
func parseReportParams(r *http.Request) (report.Params, error) {
	query := r.URL.Query()

	yearStr := query.Get("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return report.Params{}, fmt.Errorf("invalid year parameter %q", yearStr)
	}

	params := report.Params{
		TokenAddress: strings.TrimSpace(query.Get("token")),
		Chain:        strings.TrimSpace(query.Get("chain")),
		Year:         year,
	}
	return params, params.Validate()
}

func (s *Server) generate(r *http.Request) (*report.Result, int, error) {
	params, err := parseReportParams(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	result, err := s.reportService.Generate(ctx, params)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidYear), errors.Is(err, config.ErrUnsupportedChain):
			return nil, http.StatusBadRequest, err
		case errors.Is(err, coingecko.ErrNoData):
			return nil, http.StatusNotFound, err
		default:
			return nil, http.StatusBadGateway, err
		}
	}

	return result, http.StatusOK, nil
}

// handleReport serves the report as JSON
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.generate(r)
	if err != nil {
		s.sendErrorResponse(w, status, err)
		return
	}

	s.sendJSONResponse(w, result)
}

// handleReportCSV serves the report as a CSV download
func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	result, status, err := s.generate(r)
	if err != nil {
		s.sendErrorResponse(w, status, err)
		return
	}

	csvData, err := report.CSV(result.Rows)
	if err != nil {
		s.sendErrorResponse(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(result.Params)))
	if result.Partial() {
		w.Header().Set("X-Report-Partial", "true")
	}
	if _, err := w.Write(csvData); err != nil {
		log.Printf("Error writing CSV response: %v", err)
	}
}

// handleHealth responds with per-service upstream health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"coingecko_prices": "unknown",
		"exchange_rates":   "unknown",
	}

	if s.pricesService != nil && s.pricesService.Healthy() {
		services["coingecko_prices"] = "up"
	}
	if s.ratesService != nil && s.ratesService.Healthy() {
		services["exchange_rates"] = "up"
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"status":   "ok",
		"services": services,
	})
}

// sendJSONResponse writes data as JSON with Content-Type set
func (s *Server) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))

	if _, err := w.Write(responseBytes); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func (s *Server) sendErrorResponse(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encodeErr != nil {
		log.Printf("Error writing error response: %v", encodeErr)
	}
}
