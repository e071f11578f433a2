package controllers

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/dto/requests"
	"carepay-service/internal/pkg/dto/responses"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/utils"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// RefundController carries the admin-facing refund surface: forced
// refunds, the eligibility listing and aggregate statistics.
type RefundController struct {
	Log             *zap.Logger
	RefundExecutor  contracts.RefundExecutor
	PurchaseUsecase contracts.PurchaseUsecase
	InternalConfig  *config.InternalConfig
}

var (
	refundControllerInstance *RefundController
	onceRefundController     sync.Once
)

func NewRefundController(
	logger *zap.Logger,
	refundExecutor contracts.RefundExecutor,
	purchaseUsecase contracts.PurchaseUsecase,
	internalConfig *config.InternalConfig,
) *RefundController {
	onceRefundController.Do(func() {
		refundControllerInstance = &RefundController{
			Log:             logger,
			RefundExecutor:  refundExecutor,
			PurchaseUsecase: purchaseUsecase,
			InternalConfig:  internalConfig,
		}
	})
	return refundControllerInstance
}

func (ctrl *RefundController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *RefundController) ForceRefund(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	purchaseID := chi.URLParam(r, "purchaseID")
	if purchaseID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "purchaseID"))
		return
	}

	// The reason defaults to manual-admin; a body may narrow it to any
	// recognized reason (e.g. technical-issue).
	reason := constvars.RefundReasonManualAdmin
	if r.Body != nil && r.ContentLength > 0 {
		request := new(requests.ForceRefund)
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
		if err := utils.ValidateStruct(request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
			return
		}
		reason = request.Reason
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	outcome, err := ctrl.RefundExecutor.ExecuteRefund(ctx, purchaseID, reason)
	if err != nil {
		ctrl.Log.Error("RefundController.ForceRefund usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, purchaseID),
			zap.String(constvars.LoggingRefundReasonKey, reason),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	message := constvars.RefundProcessedSuccessMessage
	if !outcome.Applied {
		message = constvars.RefundAlreadyProcessedMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, responses.RefundOutcome{
		Applied: outcome.Applied,
		Amount:  outcome.Amount,
	})
}

func (ctrl *RefundController) ListEligible(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	eligible, err := ctrl.PurchaseUsecase.ListEligiblePurchases(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEligiblePurchasesSuccess, eligible)
}

func (ctrl *RefundController) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	statistics, err := ctrl.PurchaseUsecase.RefundStatistics(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRefundStatisticsSuccessMessage, statistics)
}
