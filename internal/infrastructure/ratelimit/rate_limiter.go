package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionPostComment = "post_comment"
	ActionReact       = "react"
	ActionSendMessage = "send_message"
	ActionUpload      = "upload"
)

// Policy is a token bucket: Burst tokens, refilled at Per per token.
type Policy struct {
	Burst int
	Per   time.Duration
}

// RateLimiter holds one token bucket per (actor, action).
type RateLimiter struct {
	policies map[string]Policy
	fallback Policy
	buckets  map[string]*rate.Limiter
	mutex    sync.Mutex
}

// NewRateLimiter builds limits from a per-minute budget for guest-heavy
// actions; reactions and uploads get fixed budgets.
func NewRateLimiter(actionsPerMinute int) *RateLimiter {
	if actionsPerMinute <= 0 {
		actionsPerMinute = 10
	}
	perToken := time.Minute / time.Duration(actionsPerMinute)
	return &RateLimiter{
		policies: map[string]Policy{
			ActionPostComment: {Burst: actionsPerMinute, Per: perToken},
			ActionSendMessage: {Burst: actionsPerMinute, Per: perToken},
			ActionReact:       {Burst: 30, Per: 2 * time.Second},
			ActionUpload:      {Burst: 5, Per: 12 * time.Second},
		},
		fallback: Policy{Burst: 20, Per: 3 * time.Second},
		buckets:  make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiter(key, action string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	bucketKey := key + "|" + action
	if l, ok := rl.buckets[bucketKey]; ok {
		return l
	}
	p, ok := rl.policies[action]
	if !ok {
		p = rl.fallback
	}
	l := rate.NewLimiter(rate.Every(p.Per), p.Burst)
	rl.buckets[bucketKey] = l
	return l
}

// Allow consumes a token for key on action. When refused it reports how
// long until the next token.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	return rl.allowAt(key, action, time.Now())
}

func (rl *RateLimiter) allowAt(key, action string, now time.Time) (bool, time.Duration) {
	l := rl.limiter(key, action)
	r := l.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Tokens reports the tokens currently available to key on action.
func (rl *RateLimiter) Tokens(key, action string) float64 {
	return rl.limiter(key, action).Tokens()
}

// Cleanup drops buckets that have fully refilled, i.e. idle actors.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	now := time.Now()
	for k, l := range rl.buckets {
		if l.TokensAt(now) >= float64(l.Burst()) {
			delete(rl.buckets, k)
		}
	}
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (rl *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
