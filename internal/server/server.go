package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/api"
	"github.com/iwvelando/emissions-forecast/internal/dashboard"
	"github.com/iwvelando/emissions-forecast/internal/report"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"go.uber.org/zap"
)

type handler struct {
	logger  *zap.Logger
	service *dashboard.Service
	version string
}

// Options tunes the handler returned by NewHandler.
type Options struct {
	Version        string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewHandler constructs the HTTP handler that serves the forecasting API.
func NewHandler(logger *zap.Logger, service *dashboard.Service, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, service: service, version: trimmedVersion}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/", h.handleHealth)

	mux.HandleFunc("/api/historical", h.handleHistorical)
	mux.HandleFunc("/api/forecast", h.handleForecast)
	mux.HandleFunc("/api/confidence", h.handleConfidence)
	mux.HandleFunc("/api/report", h.handleReport)
	mux.HandleFunc("/api/dashboard", h.handleDashboard)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	var root http.Handler = mux
	if opts.RequestTimeout > 0 {
		root = http.TimeoutHandler(root, opts.RequestTimeout, `{"error":"request timed out"}`)
	}
	root = withCORS(root, opts.AllowedOrigins)
	return h.withRequestLogging(root)
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.respondErrorWithOp(w, r, http.StatusNotFound, "not found", "server.handleHealth")
		return
	}
	if !allowGet(w, r) {
		return
	}

	h.writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:      "online",
		Service:     constants.ServiceName,
		ModelLoaded: h.service != nil,
		Version:     h.version,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	resp := api.VersionResponse{
		Version:   h.version,
		Model:     constants.ModelType,
		Scenarios: scenario.Names(),
	}
	if h.service != nil {
		resp.Horizon = h.service.Horizon()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleHistorical(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) || !h.requireService(w, r, "server.handleHistorical") {
		return
	}

	history, _ := h.service.Historical(r.Context())
	h.writeJSON(w, http.StatusOK, api.HistoricalResponse{Data: history.Records()})
}

func (h *handler) handleConfidence(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) || !h.requireService(w, r, "server.handleConfidence") {
		return
	}

	h.writeJSON(w, http.StatusOK, api.NewConfidenceResponse(h.service.Confidence(r.Context())))
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	view, ok := h.loadView(w, r, op)
	if !ok {
		return
	}

	projected := view.Series.Projected()
	if projected == nil {
		projected = []series.YearRecord{}
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("scenario", view.Scenario.String()),
		zap.String("source", string(view.ForecastSource)),
		zap.Int("records", len(projected)),
	)

	h.writeJSON(w, http.StatusOK, api.ForecastResponse{
		Scenario:   view.Scenario.String(),
		Data:       projected,
		Confidence: view.Confidence.Overall,
		Metrics:    api.ScopeMetrics(view.Confidence),
	})
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r, "server.handleDashboard")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = constants.OutputFormatJSON
	}
	switch format {
	case constants.OutputFormatJSON, constants.OutputFormatMarkdown, constants.OutputFormatHTML:
	default:
		h.respondErrorWithOp(w, r, http.StatusBadRequest,
			fmt.Sprintf("unsupported report format %q: must be json, markdown or html", format), op)
		return
	}

	view, ok := h.loadView(w, r, op)
	if !ok {
		return
	}

	switch format {
	case constants.OutputFormatMarkdown:
		h.writeBody(w, "text/markdown; charset=utf-8", []byte(view.Report.Markdown()))
	case constants.OutputFormatHTML:
		body, err := report.RenderHTML(view.Report)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.writeBody(w, "text/html; charset=utf-8", body)
	default:
		h.writeJSON(w, http.StatusOK, view.Report)
	}
}

// loadView resolves the scenario query parameter and loads its dashboard view,
// writing the error response itself when it fails.
func (h *handler) loadView(w http.ResponseWriter, r *http.Request, op string) (dashboard.View, bool) {
	if !allowGet(w, r) || !h.requireService(w, r, op) {
		return dashboard.View{}, false
	}

	name := r.URL.Query().Get("scenario")
	if strings.TrimSpace(name) == "" {
		name = constants.DefaultScenarioParam
	}
	sc, err := scenario.Parse(name)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest,
			fmt.Sprintf("%v: must be one of %s", err, strings.Join(scenario.Names(), ", ")), op)
		return dashboard.View{}, false
	}

	view, err := h.service.Load(r.Context(), sc)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scenario.ErrUnknownScenario) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return dashboard.View{}, false
	}
	return view, true
}

func (h *handler) requireService(w http.ResponseWriter, r *http.Request, op string) bool {
	if h.service == nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, "forecasting service not available", op)
		return false
	}
	return true
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, api.ErrorResponse{Error: msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeBody(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}
