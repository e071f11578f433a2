package routers

import (
	"carepay-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachProviderRoutes(
	router chi.Router,
	providerController *controllers.ProviderController,
	payoutController *controllers.PayoutController,
	earningController *controllers.EarningController,
) {
	router.Get("/{providerID}/refund-warnings", providerController.RefundWarnings)
	router.Get("/{providerID}/response-rate", providerController.ResponseRate)

	router.Get("/{providerID}/earnings", earningController.EarningsByProvider)
	router.Get("/{providerID}/earnings/summary", earningController.EarningsSummary)

	router.Post("/{providerID}/payout-requests", payoutController.CreatePayoutRequest)
	router.Get("/{providerID}/payout-requests", payoutController.PayoutRequestsByProvider)
	router.Post("/{providerID}/payout-requests/{payoutRequestID}/cancel", payoutController.CancelPayoutRequest)
}
