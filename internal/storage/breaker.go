package storage

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerStore guards a Store with a circuit breaker so a failing object
// store fails fast instead of tying up requests.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
	// Observe, when set, is called after every Put and Delete.
	Observe func(op string, err error)
}

type BreakerOptions struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func NewBreakerStore(next Store, o BreakerOptions, log *zap.SugaredLogger) *BreakerStore {
	if o.FailureThreshold == 0 {
		o.FailureThreshold = 5
	}
	if o.OpenTimeout == 0 {
		o.OpenTimeout = 30 * time.Second
	}
	st := gobreaker.Settings{
		Name:        o.Name,
		MaxRequests: 1,
		Timeout:     o.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= o.FailureThreshold
		},
		// validation problems are the caller's fault, not the store's
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("media store breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerStore{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerStore) Validate(contentType string, size int) error {
	return b.next.Validate(contentType, size)
}

func (b *BreakerStore) Put(ctx context.Context, ownerID string, data []byte, contentType string) (domain.Media, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Put(ctx, ownerID, data, contentType)
	})
	err = b.wrap(err)
	b.observe("put", err)
	if err != nil {
		return domain.Media{}, err
	}
	return out.(domain.Media), nil
}

func (b *BreakerStore) Delete(ctx context.Context, url string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Delete(ctx, url)
	})
	err = b.wrap(err)
	b.observe("delete", err)
	return err
}

// Owner is answered from the URL alone and never trips the breaker.
func (b *BreakerStore) Owner(url string) (string, bool) {
	return b.next.Owner(url)
}

func (b *BreakerStore) State() gobreaker.State { return b.cb.State() }

func (b *BreakerStore) wrap(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.StorageError("media storage temporarily unavailable", err)
	}
	return err
}

func (b *BreakerStore) observe(op string, err error) {
	if b.Observe != nil {
		b.Observe(op, err)
	}
}
