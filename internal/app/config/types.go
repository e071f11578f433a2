package config

type (
	DriverConfig struct {
		PostgresDB PostgresDB
		MongoDB    MongoDB
		Redis      Redis
		RabbitMQ   RabbitMQ
		Minio      Minio
		Logger     Logger
	}

	PostgresDB struct {
		Host     string
		Port     string
		Username string
		Password string
		DBName   string
	}
	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port       string
		Host       string
		Username   string
		Password   string
		UseSSL     bool
		BucketName string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)

type (
	InternalConfig struct {
		App      App
		Refund   Refund
		Earning  Earning
		Notify   Notify
		Session  Session
		RabbitMQ AppRabbitMQ
	}

	App struct {
		Env                      string
		Port                     string
		Version                  string
		Timezone                 string
		MaxRequests              int
		ShutdownTimeoutInSeconds int
		RequestTimeoutInSeconds  int
	}

	// Refund is the immutable refund policy: constructed once at startup
	// and passed explicitly into the scanner and executor.
	Refund struct {
		ResponseTimeoutMinutes int
		AutoRefundEnabled      bool
		SweepEnabled           bool
		SweepIntervalMs        int
		Percentages            map[string]int64
		WarningThresholds      WarningThresholds
	}

	WarningThresholds struct {
		Mild     int64
		Moderate int64
		Severe   int64
	}

	Earning struct {
		CommissionPercentage int64
	}

	Notify struct {
		NotifyPatients  bool
		NotifyProviders bool
		EmailEnabled    bool
	}

	// Session points at the messaging collaborator that answers the
	// provider-response predicate.
	Session struct {
		MessagingBaseUrl string
	}

	AppRabbitMQ struct {
		PatientNotificationQueue  string
		ProviderNotificationQueue string
	}
)
