package mapping

import (
	"time"

	"github.com/khoapp/storefront/pkg/api"
	"github.com/khoapp/storefront/pkg/models"
	"github.com/khoapp/storefront/pkg/reconcile"
)

// ToVPNData converts a domain VPNAccount to its API payload.
func ToVPNData(account *models.VPNAccount) *api.VPNData {
	data := &api.VPNData{
		QRImage:  account.QRImage,
		ConfText: account.Config,
	}
	if account.ExpiresAt != nil {
		data.Expire = account.ExpiresAt.Format(time.RFC3339)
	}
	return data
}

// ToVPNOrderResponse converts a VPN fulfillment result to the polling
// response. Both fresh and repeated fulfillments answer "success" with the
// same payload; the front-end cannot tell a retry apart and should not.
func ToVPNOrderResponse(result *reconcile.VPNResult) *api.OrderStatusResponse {
	switch result.Status {
	case reconcile.Fulfilled, reconcile.AlreadyFulfilled:
		return &api.OrderStatusResponse{
			Status: api.StatusSuccess,
			Data:   ToVPNData(result.Account),
		}
	case reconcile.OutOfStock:
		return &api.OrderStatusResponse{
			Status:  api.StatusError,
			Message: "Hết hàng, vui lòng liên hệ admin",
		}
	default:
		return &api.OrderStatusResponse{
			Status:  api.StatusPending,
			Message: "Chờ thanh toán...",
		}
	}
}

// ToKeyOrderResponse converts a license fulfillment result to the polling
// response.
func ToKeyOrderResponse(result *reconcile.KeyResult) *api.OrderStatusResponse {
	switch result.Status {
	case reconcile.Fulfilled, reconcile.AlreadyFulfilled:
		return &api.OrderStatusResponse{
			Status:  api.StatusSuccess,
			Key:     result.Key.Key,
			Package: result.Key.Plan,
		}
	case reconcile.AmountUnmatched:
		return &api.OrderStatusResponse{
			Status:  api.StatusError,
			Message: "Số tiền không khớp gói nào",
		}
	default:
		return &api.OrderStatusResponse{
			Status:  api.StatusPending,
			Message: "Chưa tìm thấy tiền",
		}
	}
}
