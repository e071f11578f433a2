package routers

import (
	"carepay-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachAdminRoutes(
	router chi.Router,
	refundController *controllers.RefundController,
	payoutController *controllers.PayoutController,
	earningController *controllers.EarningController,
) {
	router.Post("/refunds/{purchaseID}", refundController.ForceRefund)
	router.Get("/refunds/eligible", refundController.ListEligible)
	router.Get("/refunds/statistics", refundController.Statistics)

	router.Post("/earnings", earningController.CreateEarning)
	router.Post("/earnings/{earningID}/confirm", earningController.ConfirmEarning)

	router.Get("/payout-requests", payoutController.ListPendingPayoutRequests)
	router.Post("/payout-requests/{payoutRequestID}/approve", payoutController.ApprovePayoutRequest)
	router.Post("/payout-requests/{payoutRequestID}/reject", payoutController.RejectPayoutRequest)
	router.Post("/payout-requests/{payoutRequestID}/complete", payoutController.CompletePayoutRequest)
}
