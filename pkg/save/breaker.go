package save

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-orbiter/pkg/logging"
)

// BreakerSettings configures BreakerStore.
type BreakerSettings struct {
	// MaxConsecutiveFails trips the breaker.
	MaxConsecutiveFails uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// Retries is the number of attempts a Put gets while the breaker is
	// closed. RetryDelay grows linearly between them.
	Retries    int
	RetryDelay time.Duration
}

// DefaultBreakerSettings returns the settings used when none are configured.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxConsecutiveFails: 5,
		OpenTimeout:         30 * time.Second,
		Retries:             3,
		RetryDelay:          200 * time.Millisecond,
	}
}

// BreakerStore guards another Store with a circuit breaker. Once the
// backing store has failed MaxConsecutiveFails times in a row, calls fail
// fast with gobreaker.ErrOpenState until OpenTimeout has passed. Missing
// keys and cancelled contexts do not count as failures.
type BreakerStore struct {
	inner    Store
	breaker  *gobreaker.CircuitBreaker
	settings BreakerSettings
	logger   *logging.Logger
}

// NewBreakerStore wraps inner. A nil logger discards output.
func NewBreakerStore(inner Store, settings BreakerSettings, logger *logging.Logger) *BreakerStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Component("save")
	if settings.Retries < 1 {
		settings.Retries = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "save-store",
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxConsecutiveFails
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "save store breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &BreakerStore{
		inner:    inner,
		breaker:  breaker,
		settings: settings,
		logger:   logger,
	}
}

// State returns the breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.breaker.State()
}

// Counts returns the breaker's request counts for the current generation.
func (b *BreakerStore) Counts() gobreaker.Counts {
	return b.breaker.Counts()
}

func (b *BreakerStore) execute(op func() (any, error)) (any, error) {
	v, err := b.breaker.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("save store unavailable: %w", err)
	}
	return v, err
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Put writes through the breaker, retrying failed writes. Retries stop as
// soon as the breaker opens or ctx is done.
func (b *BreakerStore) Put(ctx context.Context, key string, value []byte) error {
	var err error
	for attempt := 1; attempt <= b.settings.Retries; attempt++ {
		_, err = b.execute(func() (any, error) {
			return nil, b.inner.Put(ctx, key, value)
		})
		if err == nil {
			return nil
		}
		if b.breaker.State() == gobreaker.StateOpen || ctx.Err() != nil {
			return err
		}
		if attempt == b.settings.Retries {
			break
		}

		delay := time.Duration(attempt) * b.settings.RetryDelay
		b.logger.Warn(ctx, "save store write failed, retrying",
			"key", key,
			"attempt", attempt,
			"delay", delay.String(),
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}
	return fmt.Errorf("write %q after %d attempts: %w", key, b.settings.Retries, err)
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return err
}

func (b *BreakerStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	v, err := b.execute(func() (any, error) {
		return b.inner.Keys(ctx, prefix)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
