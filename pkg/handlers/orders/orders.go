// Package orders exposes the buyer-facing endpoints: order polling for both
// ledger flavors and the PayOS settlement webhook.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/handlers"
	"github.com/khoapp/storefront/pkg/mapping"
	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/payments/payos"
	"github.com/khoapp/storefront/pkg/reconcile"
	"github.com/khoapp/storefront/pkg/scheduler"
	"github.com/khoapp/storefront/pkg/storage"
)

// Fulfiller is the slice of the reconciliation workflow the order endpoints
// need.
type Fulfiller interface {
	FulfillLicense(ctx context.Context, content string) (*reconcile.KeyResult, error)
	FulfillVPN(ctx context.Context, content string) (*reconcile.VPNResult, error)
	LookupVPN(ctx context.Context, content string) (*models.VPNAccount, error)
}

// OrdersHandler holds the dependencies for order-related handlers.
type OrdersHandler struct {
	Reconciler Fulfiller
	Scheduler  scheduler.Scheduler
	Validate   *validator.Validate
	Logger     *slog.Logger
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(reconciler Fulfiller, sched scheduler.Scheduler, logger *slog.Logger) *OrdersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersHandler{
		Reconciler: reconciler,
		Scheduler:  sched,
		Validate:   validator.New(),
		Logger:     logger,
	}
}

// CheckOrder handles license order polling: verify the transfer against the
// bank feed and mint (or re-serve) the key.
func (h *OrdersHandler) CheckOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CheckOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}

	result, err := h.Reconciler.FulfillLicense(r.Context(), req.Content)
	if err != nil {
		h.respondWorkflowError(w, "license fulfillment failed", req.Content, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToKeyOrderResponse(result))
}

// CheckVPNOrder handles VPN order polling; same workflow against the VPN
// stock ledger.
func (h *OrdersHandler) CheckVPNOrder(w http.ResponseWriter, r *http.Request) {
	var req api.CheckOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}

	result, err := h.Reconciler.FulfillVPN(r.Context(), req.Content)
	if err != nil {
		h.respondWorkflowError(w, "vpn fulfillment failed", req.Content, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, mapping.ToVPNOrderResponse(result))
}

// VPNStatus is the read-only poll: it reports the account already claimed
// by the transfer code without consulting the payment feed or allocating
// stock. The storefront uses it to re-render a fulfilled order page.
func (h *OrdersHandler) VPNStatus(w http.ResponseWriter, r *http.Request) {
	var req api.CheckOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		handlers.WriteJSON(w, http.StatusBadRequest, api.OrderStatusResponse{
			Status: api.StatusError, Message: "Mã giao dịch không hợp lệ",
		})
		return
	}

	account, err := h.Reconciler.LookupVPN(r.Context(), req.Content)
	if err != nil {
		h.respondWorkflowError(w, "vpn lookup failed", req.Content, err)
		return
	}
	if account == nil {
		handlers.WriteJSON(w, http.StatusOK, api.OrderStatusResponse{
			Status: api.StatusPending, Message: "Chờ thanh toán...",
		})
		return
	}
	handlers.WriteJSON(w, http.StatusOK, api.OrderStatusResponse{
		Status: api.StatusSuccess, Data: mapping.ToVPNData(account),
	})
}

// PaymentWebhook handles the PayOS settlement callback. The gateway retries
// on anything but a 200, so the request is acknowledged unconditionally and
// the ledger work is enqueued for asynchronous processing; failures surface
// only in the worker's logs.
func (h *OrdersHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	ack := func() { handlers.WriteJSON(w, http.StatusOK, api.WebhookAck{Success: true}) }

	var payload payos.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warn("undecodable webhook payload", slog.Any("error", err))
		ack()
		return
	}
	if payload.Data.Description == "" {
		ack()
		return
	}

	job := &scheduler.FulfillmentJob{
		Content:    payload.Data.Description,
		Amount:     payload.Data.Amount,
		ReceivedAt: time.Now().UTC(),
	}
	if err := h.Scheduler.EnqueueFulfillment(r.Context(), job); err != nil {
		// Still acknowledged: the gateway retrying a failed enqueue would
		// only duplicate work the idempotent workflow absorbs anyway.
		h.Logger.Error("failed to enqueue fulfillment job",
			slog.String("content", payload.Data.Description),
			slog.Any("error", err))
	}
	ack()
}

// respondWorkflowError maps workflow errors to responses: a double version
// conflict means the buyer should simply poll again, everything else is a
// server fault with no mutation applied.
func (h *OrdersHandler) respondWorkflowError(w http.ResponseWriter, msg, content string, err error) {
	if errors.Is(err, storage.ErrConflict) {
		handlers.WriteJSON(w, http.StatusOK, api.OrderStatusResponse{
			Status: api.StatusPending, Message: "Hệ thống đang bận, vui lòng thử lại",
		})
		return
	}
	h.Logger.Error(msg, slog.String("content", content), slog.Any("error", err))
	handlers.WriteJSON(w, http.StatusInternalServerError, api.OrderStatusResponse{
		Status: api.StatusError, Message: "Lỗi hệ thống",
	})
}
