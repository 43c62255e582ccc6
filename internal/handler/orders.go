package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orderdesk/orderdesk/internal/model"
	"github.com/orderdesk/orderdesk/internal/server/middleware"
	"github.com/orderdesk/orderdesk/internal/store"
)

// OrderHandler serves the order CRUD surface behind the authentication gate.
// It reads the principal the gate attached and never re-derives auth itself.
type OrderHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(st *store.Store, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{store: st, logger: logger}
}

// List returns orders newest first with limit/offset paging.
// GET /api/admin/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := clampInt(queryInt(r, "limit", 50), 1, 200)
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	orders, err := h.store.ListOrders(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list orders failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Get orders failed")
		return
	}
	total, err := h.store.CountOrders(r.Context())
	if err != nil {
		h.logger.Error("count orders failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Get orders failed")
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, model.OrderListResponse{
		Status: "success",
		Data:   orders,
		Meta: &model.ListMeta{
			Count:  len(orders),
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Get returns a single order by business key.
// GET /api/admin/orders/{orderNo}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderNo := chi.URLParam(r, "orderNo")

	order, err := h.store.GetOrderByNo(r.Context(), orderNo)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("get order failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Get order failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   order,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus patches an order's status by business key. The status value
// is recorded as-is; the back office enforces no transition rules.
// PATCH /api/admin/orders/{orderNo}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderNo := chi.URLParam(r, "orderNo")

	var req updateStatusRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	if err := h.store.UpdateOrderStatus(r.Context(), orderNo, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("update order status failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Update order status failed")
		return
	}

	order, err := h.store.GetOrderByNo(r.Context(), orderNo)
	if err != nil {
		h.logger.Error("reload order failed", "error", err,
			"request_id", middleware.GetRequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "Update order status failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   order,
	})
}
