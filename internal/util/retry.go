// ABOUTME: Retry utilities for remote calls with exponential backoff
// ABOUTME: Shared by the OpenAI client and charm sync for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

// MaxBackoff caps any single wait
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// The base delay doubles each attempt, with random jitter of up to ±25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}
