package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"reorder-system/internal/common/logger"
	"reorder-system/internal/coordinator"
	"reorder-system/internal/domain"
	"reorder-system/internal/telemetry"
)

type Handler struct {
	coord   *coordinator.Coordinator
	memSink *telemetry.Memory // nil unless the memory transport is active
	lg      *logger.Logger
}

func NewHandler(coord *coordinator.Coordinator, memSink *telemetry.Memory, lg *logger.Logger) *Handler {
	return &Handler{coord: coord, memSink: memSink, lg: lg}
}

// Router wires the boundary operations onto a ServeMux. metricsHandler is
// mounted at /metrics.
func Router(h *Handler, metricsHandler http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/detections", h.RegisterDetection)
	mux.HandleFunc("GET /api/v1/intents/{intent_id}", h.GetIntent)
	mux.HandleFunc("POST /api/v1/decisions", h.RecordDecision)
	mux.HandleFunc("GET /api/v1/orders/{order_id}", h.GetOrder)
	mux.HandleFunc("GET /api/v1/telemetry/summary", h.TelemetrySummary)
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", metricsHandler)
	return mux
}

func (h *Handler) RegisterDetection(w http.ResponseWriter, r *http.Request) {
	var ev domain.DetectionEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	resp, err := h.coord.RegisterDetection(ev)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetIntent(w http.ResponseWriter, r *http.Request) {
	intent, err := h.coord.GetIntent(r.PathValue("intent_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

func (h *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.IntentID == "" {
		writeProblem(w, http.StatusBadRequest, "bad_request", "intent_id is required")
		return
	}
	resp, err := h.coord.RecordDecision(req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.coord.GetOrder(r.PathValue("order_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) TelemetrySummary(w http.ResponseWriter, r *http.Request) {
	if h.memSink == nil {
		writeProblem(w, http.StatusNotFound, "not_found", "telemetry summary requires the memory transport")
		return
	}
	writeJSON(w, http.StatusOK, h.memSink.Summary())
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps the domain failure taxonomy onto HTTP problem responses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownProduct):
		writeProblem(w, http.StatusNotFound, "unknown_product", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrAlreadyDecided):
		writeProblem(w, http.StatusConflict, "already_decided", err.Error())
	case errors.Is(err, domain.ErrExpired):
		writeProblem(w, http.StatusGone, "expired", err.Error())
	default:
		h.lg.Error("request_failed", err, nil)
		writeProblem(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem keeps the simplified RFC 7807 error shape across endpoints.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}
