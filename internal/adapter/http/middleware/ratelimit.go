package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itemtracker/internal/adapter/http/helper"
	"itemtracker/internal/core/telemetry"
	"itemtracker/pkg/config"
)

const defaultRule = "default"

type RateLimiter struct {
	store   RateLimitStore
	rules   map[string]config.RateLimitRule
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
}

func NewRateLimiter(store RateLimitStore, rules map[string]config.RateLimitRule, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, ok := rules[defaultRule]; !ok {
		rules = cloneRules(rules)
		rules[defaultRule] = config.RateLimitRule{Requests: 60, Window: time.Minute, Key: config.KeyByIP}
	}

	return &RateLimiter{store: store, rules: rules, logger: logger, metrics: metrics}
}

// RateLimitMiddleware looks rules up by "METHOD /full/route". Routes without
// a rule share the default rule but are counted separately. Store failures
// let the request through.
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		rule, ok := rl.rules[methodPath]

		if !ok {
			rule = rl.rules[defaultRule]
		}

		keyType, identifier := rl.identify(c, rule)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, identifier)

		decision, err := rl.store.Allow(c.Request.Context(), key, rule.Requests, rule.Window)

		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			retryAfter := int(time.Until(decision.ResetAt).Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendTooManyRequests(c, fmt.Sprintf("Too many requests. Limit: %d per %v", rule.Requests, rule.Window), retryAfter)
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

// identify keys user rules by the authenticated id and falls back to the
// client ip when the caller is anonymous.
func (rl *RateLimiter) identify(c *gin.Context, rule config.RateLimitRule) (string, string) {
	if rule.Key == config.KeyByUser {
		if userID, ok := CurrentUserID(c); ok {
			return config.KeyByUser, "user_" + strconv.Itoa(userID)
		}
	}

	return config.KeyByIP, "ip_" + c.ClientIP()
}

func cloneRules(rules map[string]config.RateLimitRule) map[string]config.RateLimitRule {
	cloned := make(map[string]config.RateLimitRule, len(rules)+1)

	for k, v := range rules {
		cloned[k] = v
	}

	return cloned
}
