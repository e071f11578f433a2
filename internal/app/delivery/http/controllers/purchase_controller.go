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

type PurchaseController struct {
	Log             *zap.Logger
	PurchaseUsecase contracts.PurchaseUsecase
	RefundExecutor  contracts.RefundExecutor
	InternalConfig  *config.InternalConfig
}

var (
	purchaseControllerInstance *PurchaseController
	oncePurchaseController     sync.Once
)

func NewPurchaseController(
	logger *zap.Logger,
	purchaseUsecase contracts.PurchaseUsecase,
	refundExecutor contracts.RefundExecutor,
	internalConfig *config.InternalConfig,
) *PurchaseController {
	oncePurchaseController.Do(func() {
		purchaseControllerInstance = &PurchaseController{
			Log:             logger,
			PurchaseUsecase: purchaseUsecase,
			RefundExecutor:  refundExecutor,
			InternalConfig:  internalConfig,
		}
	})
	return purchaseControllerInstance
}

func (ctrl *PurchaseController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *PurchaseController) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "patientID"))
		return
	}

	request := new(requests.CreatePurchase)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	purchase, err := ctrl.PurchaseUsecase.CreatePurchase(ctx, patientID, &contracts.CreatePurchaseInput{
		SessionID:       request.SessionID,
		ProviderID:      request.ProviderID,
		Amount:          request.Amount,
		DurationMinutes: request.DurationMinutes,
	})
	if err != nil {
		ctrl.Log.Error("PurchaseController.CreatePurchase usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreatePurchaseSuccessMessage, purchase)
}

// RequestRefund is the patient self-service trigger; the reason is fixed
// to patient-request regardless of the body.
func (ctrl *PurchaseController) RequestRefund(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := new(requests.RequestRefund)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	outcome, err := ctrl.RefundExecutor.ExecuteRefund(ctx, request.PurchaseID, constvars.RefundReasonPatientRequest)
	if err != nil {
		ctrl.Log.Error("PurchaseController.RequestRefund usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, request.PurchaseID),
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

func (ctrl *PurchaseController) RefundHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "patientID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	history, err := ctrl.PurchaseUsecase.RefundHistoryByPatient(ctx, patientID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetRefundHistorySuccessMessage, history)
}
