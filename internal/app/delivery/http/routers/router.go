package routers

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/delivery/http/controllers"
	"carepay-service/internal/app/delivery/http/middlewares"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	mws *middlewares.Middlewares,
	logger *zap.Logger,
	accessLog *logrus.Logger,
	purchaseController *controllers.PurchaseController,
	refundController *controllers.RefundController,
	providerController *controllers.ProviderController,
	payoutController *controllers.PayoutController,
	earningController *controllers.EarningController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))
	router.Use(mws.RequestIDMiddleware)
	router.Use(mws.Logging(logger))
	router.Use(mws.RequestLogger(internalConfig.App, accessLog))
	router.Use(mws.ErrorHandler)

	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(versionPrefix, func(r chi.Router) {
		r.Route("/patients", func(r chi.Router) {
			attachPatientRoutes(r, purchaseController)
		})

		r.Route("/providers", func(r chi.Router) {
			attachProviderRoutes(r, providerController, payoutController, earningController)
		})

		r.Route("/admin", func(r chi.Router) {
			attachAdminRoutes(r, refundController, payoutController, earningController)
		})
	})
}
