package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/domain/inventory"
)

type InventoryHandler struct {
	getInventoryStatusUseCase  *usecase.GetInventoryStatusUseCase
	reconcileRoomStatusUseCase *usecase.ReconcileRoomStatusUseCase
	logger                     *slog.Logger
}

func NewInventoryHandler(
	getInventoryStatusUseCase *usecase.GetInventoryStatusUseCase,
	reconcileRoomStatusUseCase *usecase.ReconcileRoomStatusUseCase,
	logger *slog.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		getInventoryStatusUseCase:  getInventoryStatusUseCase,
		reconcileRoomStatusUseCase: reconcileRoomStatusUseCase,
		logger:                     logger,
	}
}

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// GetInventoryStatus returns the per-hotel occupancy report for one calendar
// day. An absent date parameter means today; a malformed one is a client
// error, never silently defaulted.
func (h *InventoryHandler) GetInventoryStatus(w http.ResponseWriter, r *http.Request) {
	date := time.Now()

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			h.logger.Warn("Invalid date parameter", "date", dateStr)
			h.writeErrorResponse(w, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", dateStr), http.StatusBadRequest)
			return
		}
		date = parsed
	}

	report, err := h.getInventoryStatusUseCase.Execute(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to compute inventory report", "error", err)
		h.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	meta := map[string]interface{}{
		"date":   date.Format("2006-01-02"),
		"hotels": len(report),
	}

	h.writeSuccessResponse(w, report, meta)
}

// GetRoomOccupancy is the read-only inspection path: computed load and status
// versus the stored status for one room, without persisting any correction.
func (h *InventoryHandler) GetRoomOccupancy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	roomNumber := vars["roomNumber"]
	if roomNumber == "" {
		h.writeErrorResponse(w, "room number is required", http.StatusBadRequest)
		return
	}

	inspection, err := h.reconcileRoomStatusUseCase.Inspect(r.Context(), roomNumber)
	if err != nil {
		if errors.Is(err, inventory.ErrRoomNotFound) {
			h.logger.Warn("Room not found", "room_number", roomNumber)
			h.writeErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to inspect room", "room_number", roomNumber, "error", err)
		h.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeSuccessResponse(w, inspection, nil)
}

type reconcileRequest struct {
	DryRun bool `json:"dryRun"`
}

// TriggerReconcile runs a full batch repair. Individual room failures are
// reported inside the result, not as a request failure.
func (h *InventoryHandler) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	var request reconcileRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.logger.Debug("No reconcile options in request body, using defaults", "error", err)
		}
	}

	h.logger.Info("Triggering reconciliation",
		"dry_run", request.DryRun,
		"remote_addr", r.RemoteAddr)

	result, err := h.reconcileRoomStatusUseCase.Execute(r.Context(), usecase.ReconcileOptions{DryRun: request.DryRun})
	if err != nil {
		h.logger.Error("Reconciliation failed", "error", err)
		h.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeSuccessResponse(w, result, nil)
}

func (h *InventoryHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeSuccessResponse(w, map[string]string{"status": "ok"}, nil)
}

func (h *InventoryHandler) writeSuccessResponse(w http.ResponseWriter, data interface{}, meta interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *InventoryHandler) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := APIResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
