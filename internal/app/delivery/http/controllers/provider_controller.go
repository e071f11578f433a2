package controllers

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/dto/responses"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const recentWarningsLimit = 20

type ProviderController struct {
	Log             *zap.Logger
	RefundExecutor  contracts.RefundExecutor
	PurchaseUsecase contracts.PurchaseUsecase
	NotificationLog contracts.NotificationLogRepository
	InternalConfig  *config.InternalConfig
}

var (
	providerControllerInstance *ProviderController
	onceProviderController     sync.Once
)

func NewProviderController(
	logger *zap.Logger,
	refundExecutor contracts.RefundExecutor,
	purchaseUsecase contracts.PurchaseUsecase,
	notificationLog contracts.NotificationLogRepository,
	internalConfig *config.InternalConfig,
) *ProviderController {
	onceProviderController.Do(func() {
		providerControllerInstance = &ProviderController{
			Log:             logger,
			RefundExecutor:  refundExecutor,
			PurchaseUsecase: purchaseUsecase,
			NotificationLog: notificationLog,
			InternalConfig:  internalConfig,
		}
	})
	return providerControllerInstance
}

func (ctrl *ProviderController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *ProviderController) RefundWarnings(w http.ResponseWriter, r *http.Request) {
	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	level, count, err := ctrl.RefundExecutor.ProviderWarningLevel(ctx, providerID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	// The delivery log is best effort; an unavailable log never hides
	// the warning level itself.
	recent, err := ctrl.NotificationLog.FindByRecipient(ctx, providerID, recentWarningsLimit)
	if err != nil {
		ctrl.Log.Warn("ProviderController.RefundWarnings could not load notification log",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, providerID),
			zap.Error(err),
		)
		recent = nil
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRefundWarningsSuccessMessage, responses.RefundWarnings{
		ProviderID:      providerID,
		WarningLevel:    level,
		NoResponseCount: count,
		RecentWarnings:  recent,
		TrailingDays:    constvars.WarningWindowDays,
	})
}

func (ctrl *ProviderController) ResponseRate(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	rate, err := ctrl.PurchaseUsecase.ProviderResponseRate(ctx, providerID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetResponseRateSuccessMessage, rate)
}
