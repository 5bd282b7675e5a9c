// Package ratelimit throttles intake submissions per caller identity using a
// fixed window that resets lazily on the first request after it expires.
package ratelimit

import (
	"context"
	"time"
)

// Defaults for the intake form.
const (
	DefaultMaxRequests = 3
	DefaultWindow      = time.Hour
)

// Limiter decides whether a caller identity may submit again.
type Limiter interface {
	Allow(ctx context.Context, identity string) (bool, error)
}

// Policy is the window configuration shared by every backend.
type Policy struct {
	MaxRequests int
	Window      time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.MaxRequests <= 0 {
		p.MaxRequests = DefaultMaxRequests
	}
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	return p
}
