package sessions

import (
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	messagingClientInstance contracts.ResponsePredicate
	onceMessagingClient     sync.Once
)

// messagingClient asks the messaging collaborator whether the provider
// has sent anything in the consultation since the purchase was paid for.
type messagingClient struct {
	BaseUrl    string
	HttpClient *http.Client
	Log        *zap.Logger
}

type providerActivityResponse struct {
	PurchaseID           string `json:"purchase_id"`
	ProviderMessageCount int    `json:"provider_message_count"`
}

func NewMessagingClient(baseUrl string, logger *zap.Logger) contracts.ResponsePredicate {
	onceMessagingClient.Do(func() {
		messagingClientInstance = &messagingClient{
			BaseUrl:    baseUrl,
			HttpClient: &http.Client{},
			Log:        logger,
		}
	})
	return messagingClientInstance
}

func (c *messagingClient) HasProviderRespondedAfterPurchase(ctx context.Context, purchaseID string) (bool, error) {
	count, err := c.CountProviderMessagesAfterPurchase(ctx, purchaseID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *messagingClient) CountProviderMessagesAfterPurchase(ctx context.Context, purchaseID string) (int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	url := fmt.Sprintf("%s/internal/purchases/%s/provider-activity", c.BaseUrl, purchaseID)
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, url, nil)
	if err != nil {
		c.Log.Error("messagingClient.CountProviderMessagesAfterPurchase error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		c.Log.Error("messagingClient.CountProviderMessagesAfterPurchase error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, purchaseID),
			zap.Error(err),
		)
		return 0, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		err := fmt.Errorf("messaging service returned status %d", resp.StatusCode)
		c.Log.Error("messagingClient.CountProviderMessagesAfterPurchase unexpected status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, purchaseID),
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return 0, exceptions.ErrSendHTTPRequest(err)
	}

	var activity providerActivityResponse
	if err := json.NewDecoder(resp.Body).Decode(&activity); err != nil {
		c.Log.Error("messagingClient.CountProviderMessagesAfterPurchase error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPurchaseIDKey, purchaseID),
			zap.Error(err),
		)
		return 0, exceptions.ErrDecodeResponse(err, "messaging service")
	}
	return activity.ProviderMessageCount, nil
}
