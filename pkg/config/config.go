package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort    int
	CORSOrigins []string

	APIBaseURL   string
	MediaBaseURL string
	APITimeout   time.Duration

	// Checkout policy.
	ShippingFee        int64
	SystemRestaurantID string

	StorePath string

	RabbitMQURL        string
	RabbitMQQueue      string
	ChannelPoolSize    int
	FollowupWorkers    int
	FollowupMaxAttempt int
	// FollowupAPIToken authenticates followupd, which has no user session.
	FollowupAPIToken   string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the process win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:3000/api"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:3000/uploads"),
		APITimeout:   time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 15)) * time.Second,

		ShippingFee:        int64(getEnvInt("SHIPPING_FEE", 15000)),
		SystemRestaurantID: getEnv("SYSTEM_RESTAURANT_ID", "system"),

		StorePath: getEnv("STORE_PATH", "eatup.db"),

		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:      getEnv("RABBITMQ_QUEUE", "eatup_followups"),
		ChannelPoolSize:    getEnvInt("CHANNEL_POOL_SIZE", 4),
		FollowupWorkers:    getEnvInt("FOLLOWUP_WORKERS", 2),
		FollowupMaxAttempt: getEnvInt("FOLLOWUP_MAX_ATTEMPTS", 5),
		FollowupAPIToken:   getEnv("FOLLOWUP_API_TOKEN", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
