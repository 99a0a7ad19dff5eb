package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Numbering policy
	DialPrefix   string
	MobileMarker string

	// WhatsApp Cloud API gateway
	WABaseURL          string
	WAAccessToken      string
	WAPhoneNumberID    string
	WATemplateName     string
	WATemplateLanguage string
	WATimeout          time.Duration
	DispatchSpacing    time.Duration

	// Diagnostic enricher
	EnricherProvider    string
	GeminiAPIKey        string
	GeminiModelID       string
	AWSRegion           string
	BedrockModelID      string
	GlossRetryAttempts  int
	GlossRetryBaseDelay time.Duration
	GlossCacheTTL       time.Duration

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DialPrefix:   getEnv("DIAL_PREFIX", "5531"),
		MobileMarker: getEnv("MOBILE_MARKER_DIGIT", "9"),

		WABaseURL:          getEnv("WA_BASE_URL", ""),
		WAAccessToken:      getEnv("WA_ACCESS_TOKEN", ""),
		WAPhoneNumberID:    getEnv("WA_PHONE_NUMBER_ID", ""),
		WATemplateName:     getEnv("WA_TEMPLATE_NAME", ""),
		WATemplateLanguage: getEnv("WA_TEMPLATE_LANGUAGE", "pt_BR"),
		WATimeout:          getEnvAsDuration("WA_TIMEOUT", 10*time.Second),
		DispatchSpacing:    getEnvAsDuration("DISPATCH_SPACING", 500*time.Millisecond),

		EnricherProvider:    strings.ToLower(strings.TrimSpace(getEnv("ENRICHER_PROVIDER", "none"))),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:       getEnv("GEMINI_MODEL_ID", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		BedrockModelID:      getEnv("BEDROCK_MODEL_ID", ""),
		GlossRetryAttempts:  getEnvAsInt("GLOSS_RETRY_ATTEMPTS", 3),
		GlossRetryBaseDelay: getEnvAsDuration("GLOSS_RETRY_BASE_DELAY", time.Second),
		GlossCacheTTL:       getEnvAsDuration("GLOSS_CACHE_TTL", 24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
	}
}

// MarkerDigit returns the configured mobile marker as a byte, defaulting
// to '9' when the value is not a single digit.
func (c *Config) MarkerDigit() byte {
	marker := strings.TrimSpace(c.MobileMarker)
	if len(marker) == 1 && marker[0] >= '0' && marker[0] <= '9' {
		return marker[0]
	}
	return '9'
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
