package constvars

const (
	RefundReasonDoctorNoResponse = "doctor-no-response"
	RefundReasonManualAdmin      = "manual-admin"
	RefundReasonPatientRequest   = "patient-request"
	RefundReasonTechnicalIssue   = "technical-issue"
	RefundReasonDefault          = "default"
)

const (
	NotificationTypeRefundProcessed = "REFUND_PROCESSED"
	NotificationTypeDoctorWarning   = "DOCTOR_WARNING"
)

const (
	NotificationAudiencePatient  = "patient"
	NotificationAudienceProvider = "provider"
)

// WarningWindowDays is the trailing window used when banding a provider's
// no-response refund count into a warning severity.
const WarningWindowDays = 30
