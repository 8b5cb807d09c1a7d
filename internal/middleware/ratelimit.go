package middleware

import (
	"sync"
	"time"

	"englishcard/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"
)

const msgRateLimited = "Слишком много сообщений. Подождите немного."

// RateLimiterConfig holds the per-sender rate limit settings
type RateLimiterConfig struct {
	// PerMinute is the sustained number of updates a sender may make
	PerMinute int
	// Burst is the bucket size; PerMinute is used when zero
	Burst int
	// IdleTTL is how long an unused limiter is kept
	IdleTTL time.Duration
}

type senderLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	// notified is set once the sender was told about throttling and
	// cleared by the next allowed update
	notified bool
}

// RateLimiter throttles updates per sender with a token bucket
type RateLimiter struct {
	config   RateLimiterConfig
	recorder metrics.Recorder
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.Mutex
	limiters  map[int64]*senderLimiter
	lastSweep time.Time
}

// NewRateLimiter creates a rate limiter. A nil recorder disables metrics.
func NewRateLimiter(config RateLimiterConfig, recorder metrics.Recorder, logger *zap.Logger) *RateLimiter {
	if config.Burst <= 0 {
		config.Burst = config.PerMinute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &RateLimiter{
		config:   config,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		limiters: make(map[int64]*senderLimiter),
	}
}

// Middleware drops updates from senders over their limit. The sender is
// told once per throttled streak; further drops are silent.
func (rl *RateLimiter) Middleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || rl.config.PerMinute <= 0 {
				return next(c)
			}

			allowed, notify := rl.allow(sender.ID)
			if allowed {
				return next(c)
			}

			rl.recorder.RecordRateLimited()
			rl.logger.Warn("Rate limit exceeded", zap.Int64("user_id", sender.ID))
			if notify {
				return c.Send(msgRateLimited)
			}
			return nil
		}
	}
}

// allow reports whether the sender may proceed and, if not, whether the
// sender should be notified
func (rl *RateLimiter) allow(senderID int64) (allowed, notify bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	sl, ok := rl.limiters[senderID]
	if !ok {
		perSecond := rate.Limit(float64(rl.config.PerMinute) / 60.0)
		sl = &senderLimiter{limiter: rate.NewLimiter(perSecond, rl.config.Burst)}
		rl.limiters[senderID] = sl
	}
	sl.lastAccess = now

	if sl.limiter.AllowN(now, 1) {
		sl.notified = false
		return true, false
	}
	if sl.notified {
		return false, false
	}
	sl.notified = true
	return false, true
}

// sweep drops limiters idle for longer than IdleTTL. Runs inline, at most
// once per IdleTTL.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.IdleTTL {
		return
	}
	rl.lastSweep = now

	for id, sl := range rl.limiters {
		if now.Sub(sl.lastAccess) > rl.config.IdleTTL {
			delete(rl.limiters, id)
		}
	}
}

// Len returns the number of tracked senders
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
