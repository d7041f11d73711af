package importapp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shopbridge/backend/internal/domain/integration"
)

// SchedulerConfig tunes concurrency, throttling and retry of row submissions
type SchedulerConfig struct {
	Concurrency   int
	MaxAttempts   int
	BaseBackoff   time.Duration
	MaxBackoff    time.Duration
	RatePerSecond float64
	RateBurst     int
}

// DefaultSchedulerConfig mirrors the configuration defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Concurrency:   4,
		MaxAttempts:   3,
		BaseBackoff:   time.Second,
		MaxBackoff:    30 * time.Second,
		RatePerSecond: 2,
		RateBurst:     4,
	}
}

// Scheduler bounds in-flight submissions with a semaphore and throttles them
// with a shop-wide token bucket. A slot is held only for the duration of one
// attempt: a row backing off between retries releases its slot so other rows
// keep the pipeline at full concurrency.
type Scheduler struct {
	sem         chan struct{}
	limiter     *rate.Limiter
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// NewScheduler creates a scheduler from the config, applying defaults to
// missing values.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	def := DefaultSchedulerConfig()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = def.BaseBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = def.RateBurst
	}

	return &Scheduler{
		sem:         make(chan struct{}, cfg.Concurrency),
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: cfg.BaseBackoff,
		maxBackoff:  cfg.MaxBackoff,
	}
}

// Submit runs fn with retry until it succeeds, exhausts the attempt budget or
// hits a permanent rejection. Returns the number of attempts made and the
// last error.
func (s *Scheduler) Submit(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := s.acquire(ctx); err != nil {
			return attempt - 1, err
		}
		err := func() error {
			defer s.release()
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			return fn(ctx)
		}()
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		if !Retryable(err) || attempt == s.maxAttempts {
			return attempt, err
		}
		// The slot is already released here, so waiting rows proceed while
		// this one backs off.
		if err := s.sleep(ctx, s.backoff(attempt)); err != nil {
			return attempt, lastErr
		}
	}
	return s.maxAttempts, lastErr
}

func (s *Scheduler) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) release() {
	<-s.sem
}

// backoff doubles the delay per attempt, capped at the maximum
func (s *Scheduler) backoff(attempt int) time.Duration {
	d := s.baseBackoff << (attempt - 1)
	if d > s.maxBackoff || d <= 0 {
		return s.maxBackoff
	}
	return d
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retryable classifies submission errors. Throttling, transport failures and
// remote 5xx responses are worth retrying; validation rejections are not.
func Retryable(err error) bool {
	if errors.Is(err, integration.ErrPlatformRateLimited) ||
		errors.Is(err, integration.ErrPlatformUnavailable) {
		return true
	}
	var platformErr *integration.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Status == http.StatusTooManyRequests || platformErr.Status >= 500
	}
	return false
}
