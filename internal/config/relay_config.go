package config

import "github.com/kelseyhightower/envconfig"

// RelayConfig holds what the outbox relay needs and nothing more.
type RelayConfig struct {
	Database
	Logging

	RabbitMQURL string `envconfig:"RABBITMQ_URL" required:"true"`
	Exchange    string `envconfig:"APPOINTMENT_EXCHANGE" default:"clinic.appointments"`
	HealthPort  string `envconfig:"RELAY_HEALTH_PORT" default:"8081"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	var cfg RelayConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
