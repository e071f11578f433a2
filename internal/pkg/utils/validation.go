package utils

import (
	"carepay-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("refund_reason", validateRefundReason)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateRefundReason(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case constvars.RefundReasonDoctorNoResponse,
		constvars.RefundReasonManualAdmin,
		constvars.RefundReasonPatientRequest,
		constvars.RefundReasonTechnicalIssue,
		constvars.RefundReasonDefault:
		return true
	}
	return false
}
