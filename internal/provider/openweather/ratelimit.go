package openweather

import (
	"context"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"golang.org/x/time/rate"
)

var _ ports.WeatherProvider = (*RateLimited)(nil)

// RateLimited — провайдер с ограничением частоты запросов (token bucket).
type RateLimited struct {
	next    ports.WeatherProvider
	limiter *rate.Limiter
}

// NewRateLimited — rps может быть дробным (меньше одного запроса в секунду); burst — размер всплеска.
func NewRateLimited(next ports.WeatherProvider, rps float64, burst int) *RateLimited {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Current — ждёт разрешения лимитера или отмены контекста.
func (r *RateLimited) Current(ctx context.Context, place string, unit domain.Unit) (domain.Snapshot, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.Snapshot{}, domain.NetworkError("rate limit wait canceled", err)
	}
	return r.next.Current(ctx, place, unit)
}

func (r *RateLimited) Name() string { return r.next.Name() }
