package utils

import (
	"carepay-service/internal/pkg/constvars"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateTransferProofObjectName(payoutRequestID, fileExtension string) string {
	return fmt.Sprintf("transfer-proof/%s_%d%s", payoutRequestID, time.Now().Unix(), fileExtension)
}
