// Package gateway exposes the payment-gateway endpoints: creating PayOS
// payment links and receiving SePay bank push notifications.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/handlers"
	"github.com/khoapp/storefront/pkg/notify"
	"github.com/khoapp/storefront/pkg/payments/payos"
	"github.com/khoapp/storefront/pkg/payments/sepay"
	"github.com/khoapp/storefront/pkg/scheduler"
)

// PaymentCreator is the slice of the PayOS client the gateway handlers need.
type PaymentCreator interface {
	CreatePaymentRequest(ctx context.Context, amount int64, description, returnURL string) (*payos.PaymentLink, error)
}

// Notifier pushes admin notifications for incoming transfers.
type Notifier interface {
	Enabled() bool
	PaymentReceived(ctx context.Context, n notify.PaymentNotification) error
}

// GatewayHandler holds the dependencies for gateway-related handlers.
type GatewayHandler struct {
	PayOS     PaymentCreator
	Notifier  Notifier
	Scheduler scheduler.Scheduler
	ReturnURL string
	Validate  *validator.Validate
	Logger    *slog.Logger
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(payOS PaymentCreator, notifier Notifier, sched scheduler.Scheduler, returnURL string, logger *slog.Logger) *GatewayHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GatewayHandler{
		PayOS:     payOS,
		Notifier:  notifier,
		Scheduler: sched,
		ReturnURL: returnURL,
		Validate:  validator.New(),
		Logger:    logger,
	}
}

// CreatePayment registers a PayOS order and returns the QR payload both raw
// and rendered as an embeddable PNG.
func (h *GatewayHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req api.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ")
		return
	}

	link, err := h.PayOS.CreatePaymentRequest(r.Context(), req.Amount, req.Content, h.ReturnURL)
	if err != nil {
		h.Logger.Error("failed to create payment link",
			slog.String("content", req.Content),
			slog.Any("error", err))
		handlers.WriteError(w, http.StatusBadGateway, "Không tạo được liên kết thanh toán")
		return
	}

	resp := api.CreatePaymentResponse{
		QRCode:      link.QRCode,
		CheckoutURL: link.CheckoutURL,
	}
	if img, err := payos.QRImageDataURI(link.QRCode); err == nil {
		resp.QRImage = img
	} else {
		h.Logger.Warn("failed to render QR image", slog.Any("error", err))
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// BankNotification receives SePay's push for an incoming transfer. Like the
// PayOS webhook it is acknowledged unconditionally; the notification and the
// fulfillment job are both best-effort side effects.
func (h *GatewayHandler) BankNotification(w http.ResponseWriter, r *http.Request) {
	ack := func() { handlers.WriteJSON(w, http.StatusOK, api.WebhookAck{Success: true}) }

	var payload sepay.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warn("undecodable bank notification", slog.Any("error", err))
		ack()
		return
	}
	if payload.Content == "" {
		ack()
		return
	}

	if h.Notifier != nil && h.Notifier.Enabled() {
		if err := h.Notifier.PaymentReceived(r.Context(), notify.PaymentNotification{
			Amount:  int64(payload.TransferAmount),
			Content: payload.Content,
			Gateway: payload.Gateway,
			Date:    payload.TransactionDate,
		}); err != nil {
			h.Logger.Warn("failed to notify admin", slog.Any("error", err))
		}
	}

	job := &scheduler.FulfillmentJob{
		Content:    payload.Content,
		Amount:     int64(payload.TransferAmount),
		ReceivedAt: time.Now().UTC(),
	}
	if err := h.Scheduler.EnqueueFulfillment(r.Context(), job); err != nil {
		h.Logger.Error("failed to enqueue fulfillment job",
			slog.String("content", payload.Content),
			slog.Any("error", err))
	}
	ack()
}
