package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"dividend-screener/internal/interfaces"
	"dividend-screener/internal/logger"
	"dividend-screener/internal/report"
	"dividend-screener/internal/runlog"
	"dividend-screener/internal/types"
)

// maxBodyBytes caps the size of an analyze request
const maxBodyBytes = 1 << 20

// Server exposes the pipeline over HTTP
type Server struct {
	analyzer  interfaces.Analyzer
	reporter  *report.Reporter
	runs      *runlog.Log
	accessLog io.Writer
}

type Option func(*Server)

// WithAccessLog sets where combined-format access logs go; default stderr
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) {
		s.accessLog = w
	}
}

// WithRunLog records every analyze request in the run history
func WithRunLog(l *runlog.Log) Option {
	return func(s *Server) {
		s.runs = l
	}
}

func NewServer(analyzer interfaces.Analyzer, opts ...Option) *Server {
	s := &Server{
		analyzer:  analyzer,
		reporter:  report.NewReporter(""),
		accessLog: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with recovery and access logging
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/portfolio/analyze", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/v1/ratios/{symbol}", s.handleRatios).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(s.accessLog, h)
}

type analyzeRequest struct {
	Holdings []types.SymbolRequest `json:"holdings"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type ratiosResponse struct {
	Symbol  string               `json:"symbol"`
	Metrics types.ScrapedMetrics `json:"metrics"`
	Error   string               `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	for i, h := range req.Holdings {
		if strings.TrimSpace(h.Symbol) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("holding %d has no symbol", i)})
			return
		}
	}

	table := s.analyzer.Analyze(r.Context(), req.Holdings)
	if s.runs != nil {
		if err := s.runs.Append(runlog.EntryFor("http", table)); err != nil {
			logger.Warn(r.Context(), "Failed to append run log", "error", err)
		}
	}

	if wantsCSV(r) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="merged_data.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := s.reporter.Write(w, table, report.FormatCSV); err != nil {
			logger.ErrorWithErr(r.Context(), "Failed to write CSV response", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	res := s.analyzer.Scrape(r.Context(), symbol)

	if res.Err != nil && errors.Is(res.Err, types.ErrFetchFailed) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: res.Err.Error(),
			Kind:  types.FailureKind(res.Err),
		})
		return
	}

	resp := ratiosResponse{Symbol: res.Symbol, Metrics: res.Metrics}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func wantsCSV(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "csv") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/csv")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
