package config

import (
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		PostgresDB: PostgresDB{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "defaultPassword"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "carepay"),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "carepay"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", "customRedisPass"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "carepay-payouts"),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                      utils.GetEnvString("APP_ENV", "development"),
			Port:                     utils.GetEnvString("APP_PORT", ":8080"),
			Version:                  utils.GetEnvString("APP_VERSION", "v1"),
			Timezone:                 utils.GetEnvString("APP_TIMEZONE", "Asia/Jakarta"),
			MaxRequests:              utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeoutInSeconds: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:  utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
		},
		Refund: Refund{
			ResponseTimeoutMinutes: utils.GetEnvInt("REFUND_RESPONSE_TIMEOUT_MINUTES", 30),
			AutoRefundEnabled:      utils.GetEnvBool("REFUND_AUTO_ENABLED", true),
			SweepEnabled:           utils.GetEnvBool("REFUND_SWEEP_ENABLED", true),
			SweepIntervalMs:        utils.GetEnvInt("REFUND_SWEEP_INTERVAL_MS", 600000),
			Percentages: map[string]int64{
				constvars.RefundReasonDoctorNoResponse: utils.GetEnvInt64("REFUND_PERCENTAGE_DOCTOR_NO_RESPONSE", 100),
				constvars.RefundReasonManualAdmin:      utils.GetEnvInt64("REFUND_PERCENTAGE_MANUAL_ADMIN", 100),
				constvars.RefundReasonPatientRequest:   utils.GetEnvInt64("REFUND_PERCENTAGE_PATIENT_REQUEST", 80),
				constvars.RefundReasonTechnicalIssue:   utils.GetEnvInt64("REFUND_PERCENTAGE_TECHNICAL_ISSUE", 100),
				constvars.RefundReasonDefault:          utils.GetEnvInt64("REFUND_PERCENTAGE_DEFAULT", 50),
			},
			WarningThresholds: WarningThresholds{
				Mild:     utils.GetEnvInt64("REFUND_WARNING_MILD", 3),
				Moderate: utils.GetEnvInt64("REFUND_WARNING_MODERATE", 5),
				Severe:   utils.GetEnvInt64("REFUND_WARNING_SEVERE", 8),
			},
		},
		Earning: Earning{
			CommissionPercentage: utils.GetEnvInt64("EARNING_COMMISSION_PERCENTAGE", 70),
		},
		Notify: Notify{
			NotifyPatients:  utils.GetEnvBool("NOTIFY_PATIENTS", true),
			NotifyProviders: utils.GetEnvBool("NOTIFY_PROVIDERS", true),
			EmailEnabled:    utils.GetEnvBool("EMAIL_ENABLED", false),
		},
		Session: Session{
			MessagingBaseUrl: utils.GetEnvString("SESSION_MESSAGING_BASE_URL", "http://localhost:5600"),
		},
		RabbitMQ: AppRabbitMQ{
			PatientNotificationQueue:  utils.GetEnvString("APP_RABBITMQ_PATIENT_NOTIFICATION_QUEUE", "patient_notification_queue"),
			ProviderNotificationQueue: utils.GetEnvString("APP_RABBITMQ_PROVIDER_NOTIFICATION_QUEUE", "provider_notification_queue"),
		},
	}
}
