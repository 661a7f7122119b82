package server

import (
	"context"
	"net/http"

	"github.com/STTM-NSU/holdings/internal/logger"
	"github.com/STTM-NSU/holdings/internal/viewmodel"
	"github.com/bytedance/sonic"
)

// ViewModel is the part of *viewmodel.PortfolioViewModel the HTTP layer drives.
type ViewModel interface {
	State() viewmodel.State
	FetchPortfolio(ctx context.Context) *viewmodel.Task
	ToggleSummary()
}

type RefreshResponse struct {
	TaskID string `json:"taskId"`
}

type handler struct {
	ctx    context.Context
	vm     ViewModel
	logger logger.Logger
}

// NewHandler builds the HTTP routes. Refresh cycles run under ctx rather
// than the request context so they outlive the request. metrics may be nil.
func NewHandler(ctx context.Context, vm ViewModel, hub *Hub, metrics http.Handler, logger logger.Logger) http.Handler {
	h := &handler{ctx: ctx, vm: vm, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/holdings", h.holdings)
	mux.HandleFunc("POST /api/refresh", h.refresh)
	mux.HandleFunc("POST /api/summary/toggle", h.toggle)
	mux.HandleFunc("GET /ws", hub.ServeWS)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	return withCORS(mux)
}

func (h *handler) holdings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, newStateResponse(h.vm.State()))
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	task := h.vm.FetchPortfolio(h.ctx)
	h.logger.Infof("refresh requested, cycle %s", task.ID())
	h.writeJSON(w, http.StatusAccepted, RefreshResponse{TaskID: task.ID()})
}

func (h *handler) toggle(w http.ResponseWriter, r *http.Request) {
	h.vm.ToggleSummary()
	h.writeJSON(w, http.StatusOK, newStateResponse(h.vm.State()))
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Errorf("%s: can't encode response", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		h.logger.Debugf("%s: can't write response", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
