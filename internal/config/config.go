package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Upstream school-platform API.
	UpstreamBaseURL string
	ClientOrigin    string
	HTTPTimeoutSec  int
	MockMode        bool

	// Submission pacing. DelayCapSec bounds the real sleep regardless of the
	// simulated human delay; 0 disables the cap.
	MaxWorkers  int
	DelayCapSec int

	RedisURL string

	Events EventConfig
}

func LoadConfig() (*Config, error) {
	// A missing .env is fine; deployments may set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "https://edusp-api.ip.tv"),
		ClientOrigin:    getEnv("CLIENT_ORIGIN", "https://saladofuturo.educacao.sp.gov.br"),
		HTTPTimeoutSec:  getEnvInt("HTTP_TIMEOUT_SECONDS", 30),
		MockMode:        getEnvBool("MOCK_MODE", false),
		MaxWorkers:      getEnvInt("MAX_WORKERS", 6),
		DelayCapSec:     getEnvInt("DELAY_CAP_SECONDS", 5),
		RedisURL:        getEnv("REDIS_URL", ""),
		Events: EventConfig{
			Enabled:         getEnvBool("EVENTS_ENABLED", true),
			Publisher:       getEnv("EVENTS_PUBLISHER", "channel"),
			KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
			SubmissionTopic: getEnv("SUBMISSION_TOPIC", "task-submissions"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.EqualFold(value, "true") || value == "1"
}
