package routers

import (
	"carepay-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachPatientRoutes(router chi.Router, purchaseController *controllers.PurchaseController) {
	router.Post("/{patientID}/purchases", purchaseController.CreatePurchase)
	router.Post("/{patientID}/refund-requests", purchaseController.RequestRefund)
	router.Get("/{patientID}/refund-history", purchaseController.RefundHistory)
}
