// Package api - Thin HTTP layer over the calculation engine
// The API is ONLY responsible for: input decoding, engine invocation, output serialization.
// The API NEVER performs cost logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"landed-cost/core/engine"
	"landed-cost/core/output"
	"landed-cost/core/rates"
	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
	"landed-cost/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators a server needs.
type Deps struct {
	Engine   *engine.Engine
	Rates    *rates.Provider
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// Defaults fill parameters a request omits
	Defaults engine.Request
	Version  string
}

// Server is the API server
type Server struct {
	deps   Deps
	router chi.Router
	log    *zap.Logger
}

// NewServer creates a new API server
func NewServer(deps Deps) *Server {
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		deps:   deps,
		router: chi.NewRouter(),
		log:    logging.Named("api"),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// Core endpoints
	r.Post("/calculate", s.handleCalculate)
	r.Get("/rates", s.handleRates)
	r.Post("/rates/reload", s.handleReload)
	r.Get("/containers", s.handleContainers)

	// Exports
	r.Post("/export/xlsx", s.handleExportXLSX)
	r.Post("/export/pdf", s.handleExportPDF)
	r.Post("/export/csv", s.handleExportCSV)

	// Supporting endpoints
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
}

// decode reads a CalculateRequest body.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (CalculateRequest, bool) {
	var body CalculateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.writeErr(w, errors.Parsing("decode request body", err))
		return body, false
	}
	return body, true
}

// calculate decodes the body and runs the engine (NO COST LOGIC HERE).
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) (*engine.Result, bool) {
	body, ok := s.decode(w, r)
	if !ok {
		return nil, false
	}
	req, err := body.toEngine(s.deps.Defaults)
	if err != nil {
		s.writeErr(w, err)
		return nil, false
	}
	result, err := s.deps.Engine.Calculate(r.Context(), req)
	if err != nil {
		s.writeErr(w, err)
		return nil, false
	}
	return result, true
}

// handleCalculate handles POST /calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	result, ok := s.calculate(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleRates handles GET /rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.ratesResponse(true), http.StatusOK)
}

// handleReload handles POST /rates/reload. A file that fails to load is
// reported, and the built-in table stays in use.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Rates.Reload(); err != nil {
		s.log.Warn("rates reload fell back to defaults", zap.Error(err))
	}
	s.writeJSON(w, s.ratesResponse(false), http.StatusOK)
}

func (s *Server) ratesResponse(withTable bool) RatesResponse {
	table, source := s.deps.Rates.Snapshot()
	resp := RatesResponse{
		Source:      source,
		Path:        s.deps.Rates.Path(),
		Fingerprint: table.Fingerprint(),
	}
	if err := s.deps.Rates.LastError(); err != nil {
		resp.LoadError = err.Error()
	}
	if withTable {
		resp.Rates = table
	}
	return resp
}

// handleContainers handles GET /containers
func (s *Server) handleContainers(w http.ResponseWriter, r *http.Request) {
	table := s.deps.Rates.Get()
	ids := table.ContainerIDs()
	containers := make([]ContainerInfo, 0, len(ids))
	for _, id := range ids {
		c, err := table.Container(id)
		if err != nil {
			s.writeErr(w, err)
			return
		}
		containers = append(containers, ContainerInfo{ID: c.ID, VolumeCuft: c.VolumeCuft, PayloadLbs: c.PayloadLbs})
	}
	s.writeJSON(w, containers, http.StatusOK)
}

// handleExportXLSX handles POST /export/xlsx
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := s.calculate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="landed-cost.xlsx"`)
	if err := output.WriteXLSX(w, result); err != nil {
		s.log.Error("xlsx export failed", zap.Error(err))
		return
	}
	s.deps.Metrics.Exported("xlsx")
}

// handleExportPDF handles POST /export/pdf
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	result, ok := s.calculate(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="landed-cost.pdf"`)
	if err := output.WritePDF(w, result); err != nil {
		s.log.Error("pdf export failed", zap.Error(err))
		return
	}
	s.deps.Metrics.Exported("pdf")
}

// handleExportCSV handles POST /export/csv. Only the items are read; no
// calculation runs.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	o, err := body.toEngine(s.deps.Defaults)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="items.csv"`)
	if err := output.WriteItemsCSV(w, o.Order.Items()); err != nil {
		s.log.Error("csv export failed", zap.Error(err))
		return
	}
	s.deps.Metrics.Exported("csv")
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":       "healthy",
		"version":      s.deps.Version,
		"rates_source": s.deps.Rates.Source(),
		"time":         time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version": s.deps.Version,
		"engine":  "landed-cost",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}

// writeErr maps typed errors to status codes. A capacity error is 422 and
// carries the required and maximum volumes.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	body := ErrorBody{Code: string(errors.TypeInternal), Message: err.Error()}
	status := http.StatusInternalServerError

	if e, ok := errors.As(err); ok {
		body.Code = string(e.Type)
		body.Context = e.Context
		switch e.Type {
		case errors.TypeCapacity:
			status = http.StatusUnprocessableEntity
		case errors.TypeInput, errors.TypeParsing:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		}
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, ErrorResponse{Error: body}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
