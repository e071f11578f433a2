package controllers

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/dto/requests"
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

type EarningController struct {
	Log            *zap.Logger
	EarningUsecase contracts.EarningUsecase
	InternalConfig *config.InternalConfig
}

var (
	earningControllerInstance *EarningController
	onceEarningController     sync.Once
)

func NewEarningController(logger *zap.Logger, earningUsecase contracts.EarningUsecase, internalConfig *config.InternalConfig) *EarningController {
	onceEarningController.Do(func() {
		earningControllerInstance = &EarningController{
			Log:            logger,
			EarningUsecase: earningUsecase,
			InternalConfig: internalConfig,
		}
	})
	return earningControllerInstance
}

func (ctrl *EarningController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *EarningController) CreateEarning(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	request := new(requests.CreateEarning)
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

	earning, err := ctrl.EarningUsecase.CreateEarningFromPurchase(ctx, request.PurchaseID)
	if err != nil {
		ctrl.Log.Error("EarningController.CreateEarning usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, request.PurchaseID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreateEarningSuccessMessage, earning)
}

func (ctrl *EarningController) ConfirmEarning(w http.ResponseWriter, r *http.Request) {
	earningID := chi.URLParam(r, "earningID")
	if earningID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "earningID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	earning, err := ctrl.EarningUsecase.ConfirmEarning(ctx, earningID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ConfirmEarningSuccessMessage, earning)
}

func (ctrl *EarningController) EarningsByProvider(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	earnings, err := ctrl.EarningUsecase.EarningsByProvider(ctx, providerID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEarningsSuccessMessage, earnings)
}

func (ctrl *EarningController) EarningsSummary(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	summary, err := ctrl.EarningUsecase.EarningsSummary(ctx, providerID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetEarningsSuccessMessage, summary)
}
