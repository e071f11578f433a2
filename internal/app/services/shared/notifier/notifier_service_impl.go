package notifier

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	notifierServiceInstance contracts.NotificationSink
	notifierServiceMutex    sync.Mutex
)

// queueNotifier publishes notification payloads to durable per-audience
// RabbitMQ queues and keeps a best-effort delivery log. It never returns
// the broker's failure into the financial path; callers treat errors as
// log-and-continue.
type queueNotifier struct {
	ch              *amqp.Channel
	logRepo         contracts.NotificationLogRepository
	internalConfig  *config.InternalConfig
	Log             *zap.Logger
	mu              sync.Mutex
	patientQueue    string
	providerQueue   string
	notifyPatients  bool
	notifyProviders bool
}

func NewQueueNotifier(
	conn *amqp.Connection,
	logRepo contracts.NotificationLogRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) (contracts.NotificationSink, error) {
	return notifierSingleton(func() (contracts.NotificationSink, error) {
		ch, err := conn.Channel()
		if err != nil {
			return nil, err
		}

		for _, queueName := range []string{
			internalConfig.RabbitMQ.PatientNotificationQueue,
			internalConfig.RabbitMQ.ProviderNotificationQueue,
		} {
			_, err = ch.QueueDeclare(
				queueName, // name
				true,      // durable
				false,     // autoDelete
				false,     // exclusive
				false,     // noWait
				nil,       // args
			)
			if err != nil {
				return nil, err
			}
		}

		return &queueNotifier{
			ch:              ch,
			logRepo:         logRepo,
			internalConfig:  internalConfig,
			Log:             logger,
			patientQueue:    internalConfig.RabbitMQ.PatientNotificationQueue,
			providerQueue:   internalConfig.RabbitMQ.ProviderNotificationQueue,
			notifyPatients:  internalConfig.Notify.NotifyPatients,
			notifyProviders: internalConfig.Notify.NotifyProviders,
		}, nil
	})
}

// notifierSingleton caches the sink only once construction succeeds, so a
// failed broker setup can be retried on the next call.
func notifierSingleton(build func() (contracts.NotificationSink, error)) (contracts.NotificationSink, error) {
	notifierServiceMutex.Lock()
	defer notifierServiceMutex.Unlock()
	if notifierServiceInstance != nil {
		return notifierServiceInstance, nil
	}
	sink, err := build()
	if err != nil {
		return nil, err
	}
	notifierServiceInstance = sink
	return sink, nil
}

func (n *queueNotifier) NotifyPatient(ctx context.Context, patientID string, payload models.NotificationPayload) error {
	if !n.notifyPatients {
		return nil
	}
	return n.publish(ctx, n.patientQueue, constvars.NotificationAudiencePatient, patientID, payload)
}

func (n *queueNotifier) NotifyProvider(ctx context.Context, providerID string, payload models.NotificationPayload) error {
	if !n.notifyProviders {
		return nil
	}
	return n.publish(ctx, n.providerQueue, constvars.NotificationAudienceProvider, providerID, payload)
}

type queueEnvelope struct {
	RecipientID string                     `json:"recipient_id"`
	Audience    string                     `json:"audience"`
	Payload     models.NotificationPayload `json:"payload"`
}

func (n *queueNotifier) publish(ctx context.Context, queueName, audience, recipientID string, payload models.NotificationPayload) error {
	body, err := json.Marshal(queueEnvelope{
		RecipientID: recipientID,
		Audience:    audience,
		Payload:     payload,
	})
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	n.mu.Lock()
	err = n.ch.PublishWithContext(ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  constvars.MIMEApplicationJSON,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	n.mu.Unlock()
	if err != nil {
		return exceptions.ErrRabbitMQPublish(err, queueName)
	}

	// Delivery log is itself best effort.
	logErr := n.logRepo.InsertEntry(ctx, &models.NotificationLogEntry{
		RecipientID: recipientID,
		Audience:    audience,
		Type:        payload.Type,
		Amount:      payload.Amount,
		Reason:      payload.Reason,
		Message:     payload.Message,
		DeliveredAt: payload.Timestamp,
	})
	if logErr != nil {
		n.Log.Warn("queueNotifier.publish failed to record delivery log",
			zap.String("queue", queueName),
			zap.Error(logErr),
		)
	}
	return nil
}
