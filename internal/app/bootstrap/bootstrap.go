// Package bootstrap wires optional collaborators (gateway, enricher, cache)
// from configuration. Everything here degrades to nil when unconfigured so
// binaries can run with any subset of the stack.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/relaykit/contact-relay/internal/config"
	"github.com/relaykit/contact-relay/internal/dispatch"
	"github.com/relaykit/contact-relay/internal/dispatch/waclient"
	"github.com/relaykit/contact-relay/internal/enrich"
	"github.com/relaykit/contact-relay/internal/observability/metrics"
	"github.com/relaykit/contact-relay/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	options := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(options)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, gloss cache disabled", "error", err)
		return nil
	}
	return client
}

// BuildDispatcher returns a ready dispatcher or nil when the gateway
// credentials are not configured. A nil metrics value disables latency
// observation.
func BuildDispatcher(cfg *appconfig.Config, logger *logging.Logger, m *metrics.PipelineMetrics) *dispatch.Dispatcher {
	if cfg == nil || cfg.WAAccessToken == "" || cfg.WAPhoneNumberID == "" || cfg.WATemplateName == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	gateway, err := waclient.New(waclient.Config{
		BaseURL:       cfg.WABaseURL,
		AccessToken:   cfg.WAAccessToken,
		PhoneNumberID: cfg.WAPhoneNumberID,
		Timeout:       cfg.WATimeout,
		Logger:        logger.Component("waclient").Logger,
	})
	if err != nil {
		logger.Warn("gateway client unavailable", "error", err)
		return nil
	}
	d, err := dispatch.New(gateway, dispatch.Config{
		Template:     cfg.WATemplateName,
		LanguageCode: cfg.WATemplateLanguage,
		Spacing:      cfg.DispatchSpacing,
		Logger:       logger.Component("dispatch").Logger,
		Metrics:      m,
	})
	if err != nil {
		logger.Warn("dispatcher unavailable", "error", err)
		return nil
	}
	return d
}

// BuildEnricher assembles the diagnostic enricher from the configured
// provider and an optional Redis cache. Returns nil when no provider is
// configured; the pipeline then uses the local fallback glosses directly.
func BuildEnricher(ctx context.Context, cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) *enrich.Enricher {
	if cfg == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	client := buildLLMClient(ctx, cfg, logger)
	if client == nil {
		return nil
	}
	cache := enrich.NewGlossCache(redisClient, cfg.GlossCacheTTL)
	return enrich.New(client, cache, enrich.Config{
		Attempts: cfg.GlossRetryAttempts,
		Backoff:  cfg.GlossRetryBaseDelay,
		Logger:   logger.Component("enrich").Logger,
	})
}

func buildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) enrich.LLMClient {
	switch cfg.EnricherProvider {
	case "gemini":
		client, err := enrich.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Warn("gemini enricher unavailable", "error", err)
			return nil
		}
		return client
	case "bedrock":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("bedrock enricher unavailable", "error", err)
			return nil
		}
		client, err := enrich.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		if err != nil {
			logger.Warn("bedrock enricher unavailable", "error", err)
			return nil
		}
		return client
	case "", "none":
		return nil
	default:
		logger.Warn("unknown enricher provider", "provider", cfg.EnricherProvider)
		return nil
	}
}
