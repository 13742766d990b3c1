package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"github.com/sony/gobreaker"
)

var _ ports.WeatherProvider = (*Breaker)(nil)

// MessageUnavailable — ответ при открытом автомате.
const MessageUnavailable = "weather provider is temporarily unavailable"

// BreakerSettings — параметры автомата.
type BreakerSettings struct {
	MaxRequests      uint32        // пробных запросов в half-open
	Interval         time.Duration // период сброса счётчиков в closed
	Timeout          time.Duration // время в open до перехода в half-open
	FailureThreshold uint32        // подряд неудач до размыкания
}

// Breaker — провайдер за circuit breaker.
// Неудачей считаются только сетевые сбои и 5xx: 404 и ошибки декодирования автомат не размыкают.
type Breaker struct {
	next ports.WeatherProvider
	cb   *gobreaker.CircuitBreaker
}

func NewBreaker(next ports.WeatherProvider, s BreakerSettings, log ports.Logger) *Breaker {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !countsAsFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if log != nil {
				log.Warnf(context.Background(), "circuit breaker %s: %s -> %s", name, from, to)
			}
		},
	})
	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) Current(ctx context.Context, place string, unit domain.Unit) (domain.Snapshot, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Current(ctx, place, unit)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.Snapshot{}, domain.NetworkError(MessageUnavailable, err)
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap, ok := res.(domain.Snapshot)
	if !ok {
		return domain.Snapshot{}, domain.DecodeError(0, fmt.Errorf("unexpected result type %T", res))
	}
	return snap, nil
}

func (b *Breaker) Name() string { return b.next.Name() }

// State — текущее состояние автомата (для логов и тестов).
func (b *Breaker) State() gobreaker.State { return b.cb.State() }

func countsAsFailure(err error) bool {
	var fe *domain.FetchError
	if !errors.As(err, &fe) {
		return true
	}
	switch fe.Kind {
	case domain.KindNetwork:
		return !errors.Is(err, context.Canceled)
	case domain.KindHTTP:
		return fe.Status >= http.StatusInternalServerError || fe.Status == http.StatusTooManyRequests
	default:
		return false
	}
}
