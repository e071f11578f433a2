package controllers

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/dto/requests"
	"carepay-service/internal/pkg/exceptions"
	"carepay-service/internal/pkg/utils"
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const maxTransferProofBytes = 10 << 20

type PayoutController struct {
	Log            *zap.Logger
	PayoutUsecase  contracts.PayoutUsecase
	InternalConfig *config.InternalConfig
}

var (
	payoutControllerInstance *PayoutController
	oncePayoutController     sync.Once
)

func NewPayoutController(logger *zap.Logger, payoutUsecase contracts.PayoutUsecase, internalConfig *config.InternalConfig) *PayoutController {
	oncePayoutController.Do(func() {
		payoutControllerInstance = &PayoutController{
			Log:            logger,
			PayoutUsecase:  payoutUsecase,
			InternalConfig: internalConfig,
		}
	})
	return payoutControllerInstance
}

func (ctrl *PayoutController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func (ctrl *PayoutController) CreatePayoutRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	request := new(requests.CreatePayoutRequest)
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

	payoutRequest, err := ctrl.PayoutUsecase.CreatePayoutRequest(ctx, providerID, request.Amount, models.BankDetails{
		AccountName:   request.BankAccountName,
		AccountNumber: request.BankAccountNumber,
		BankName:      request.BankName,
	})
	if err != nil {
		ctrl.Log.Error("PayoutController.CreatePayoutRequest usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderIDKey, providerID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.CreatePayoutRequestSuccessMessage, payoutRequest)
}

func (ctrl *PayoutController) CancelPayoutRequest(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	payoutRequestID := chi.URLParam(r, "payoutRequestID")
	if providerID == "" || payoutRequestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "payoutRequestID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	cancelled, err := ctrl.PayoutUsecase.CancelPayoutRequest(ctx, providerID, payoutRequestID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CancelPayoutRequestSuccessMessage, cancelled)
}

func (ctrl *PayoutController) PayoutRequestsByProvider(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")
	if providerID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "providerID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	payoutRequests, err := ctrl.PayoutUsecase.PayoutRequestsByProvider(ctx, providerID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPayoutRequestsSuccessMessage, payoutRequests)
}

func (ctrl *PayoutController) ListPendingPayoutRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	pending, err := ctrl.PayoutUsecase.ListPendingPayoutRequests(ctx)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetPayoutRequestsSuccessMessage, pending)
}

func (ctrl *PayoutController) ApprovePayoutRequest(w http.ResponseWriter, r *http.Request) {
	ctrl.review(w, r, constvars.ApprovePayoutRequestSuccessMessage, ctrl.PayoutUsecase.ApprovePayoutRequest)
}

func (ctrl *PayoutController) RejectPayoutRequest(w http.ResponseWriter, r *http.Request) {
	ctrl.review(w, r, constvars.RejectPayoutRequestSuccessMessage, ctrl.PayoutUsecase.RejectPayoutRequest)
}

func (ctrl *PayoutController) review(w http.ResponseWriter, r *http.Request, successMessage string, action func(ctx context.Context, requestID, note string) (*models.PayoutRequest, error)) {
	payoutRequestID := chi.URLParam(r, "payoutRequestID")
	if payoutRequestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "payoutRequestID"))
		return
	}

	request := new(requests.ReviewPayoutRequest)
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(request); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	reviewed, err := action(ctx, payoutRequestID, request.Note)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, successMessage, reviewed)
}

// CompletePayoutRequest takes the transfer proof as multipart form data
// under the "transfer_proof" field.
func (ctrl *PayoutController) CompletePayoutRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	payoutRequestID := chi.URLParam(r, "payoutRequestID")
	if payoutRequestID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(nil, "payoutRequestID"))
		return
	}

	if err := r.ParseMultipartForm(maxTransferProofBytes); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	file, header, err := r.FormFile("transfer_proof")
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = constvars.MIMEOctetStream
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	completed, err := ctrl.PayoutUsecase.CompletePayoutRequest(ctx, payoutRequestID, contracts.TransferProof{
		File:          file,
		Size:          header.Size,
		FileExtension: filepath.Ext(header.Filename),
		ContentType:   contentType,
	})
	if err != nil {
		ctrl.Log.Error("PayoutController.CompletePayoutRequest usecase error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutRequestIDKey, payoutRequestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CompletePayoutRequestSuccessMessage, completed)
}
