package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"go.uber.org/zap"
)

// ConsumptionService is the consumption engine as seen by the HTTP layer
type ConsumptionService interface {
	Preview(ctx context.Context, userID string, in dto.ConsumptionInput) (*dto.Preview, error)
	Confirm(ctx context.Context, userID string, in dto.ConsumptionInput) (*dto.ConfirmResult, error)
	ConfirmBatch(ctx context.Context, userID string, inputs []dto.ConsumptionInput) (*dto.BatchResult, error)
	RenameConsumption(ctx context.Context, userID, consumptionID, name string) (*dto.ConsumptionView, error)
	ListConsumptions(ctx context.Context, userID string, q dto.ListQuery) ([]dto.ConsumptionDetails, error)
	Summarize(ctx context.Context, userID string) (*dto.Summary, error)
}

// MaintenanceService repairs recipe data
type MaintenanceService interface {
	FixDanglingIngredientLinks(ctx context.Context, userID string) (*dto.FixLinksReport, error)
	CleanupDuplicateRecipes(ctx context.Context, userID string) (*dto.CleanupReport, error)
}

// Handler serves the kitchen API
type Handler struct {
	consumptions ConsumptionService
	maintenance  MaintenanceService
	logger       *zap.Logger
}

// NewHandler creates a handler. A nil logger discards output.
func NewHandler(consumptions ConsumptionService, maintenance MaintenanceService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{consumptions: consumptions, maintenance: maintenance, logger: logger}
}

type batchRequest struct {
	Consumptions []dto.ConsumptionInput `json:"consumptions"`
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) PreviewConsumption(w http.ResponseWriter, r *http.Request) {
	var in dto.ConsumptionInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	preview, err := h.consumptions.Preview(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handler) ConfirmConsumption(w http.ResponseWriter, r *http.Request) {
	var in dto.ConsumptionInput
	if err := decodeBody(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.consumptions.Confirm(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) ConfirmBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.consumptions.ConfirmBatch(r.Context(), userID(r), req.Consumptions)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ListConsumptions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := dto.ListQuery{
		StartDate: query.Get("start_date"),
		EndDate:   query.Get("end_date"),
		Type:      query.Get("type"),
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, &badRequest{msg: "Invalid limit", err: err})
			return
		}
		q.Limit = limit
	}

	consumptions, err := h.consumptions.ListConsumptions(r.Context(), userID(r), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, consumptions)
}

func (h *Handler) RenameConsumption(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.consumptions.RenameConsumption(r.Context(), userID(r), chi.URLParam(r, "consumption_id"), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.consumptions.Summarize(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) FixIngredientLinks(w http.ResponseWriter, r *http.Request) {
	report, err := h.maintenance.FixDanglingIngredientLinks(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) CleanupDuplicates(w http.ResponseWriter, r *http.Request) {
	report, err := h.maintenance.CleanupDuplicateRecipes(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
