package domain

import "time"

// RateLimitBucket is one fixed-window counter.
type RateLimitBucket struct {
	Key         string
	WindowStart time.Time
	Count       int
}

// RateLimitAction names the operation a bucket throttles.
type RateLimitAction string

const (
	ActionSendCode   RateLimitAction = "send"
	ActionVerifyCode RateLimitAction = "verify"
)
