package usecase

import (
	"context"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/cache/memory"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"github.com/Gunvolt24/weather_dash/pkg/metrics"
	"github.com/Gunvolt24/weather_dash/pkg/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CanonicalUnit — система единиц, в которой снимки запрашиваются и хранятся.
// Перевод в единицы сессии выполняется на границе представления.
const CanonicalUnit = domain.UnitCelsius

const tracerName = "github.com/Gunvolt24/weather_dash/internal/usecase"

// Orchestrator — решает hit/miss, ходит к провайдеру и классифицирует ошибки.
// Кэш не меняет: только сообщает Outcome.
type Orchestrator struct {
	provider ports.WeatherProvider
	log      ports.Logger
	ttl      time.Duration
	now      func() time.Time
	tracer   trace.Tracer
}

// Option — настройка Orchestrator.
type Option func(*Orchestrator)

// WithClock — источник текущего времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator — DI-конструктор. ttl — окно валидности записей кэша.
func NewOrchestrator(provider ports.WeatherProvider, log ports.Logger, ttl time.Duration, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		log:      log,
		ttl:      ttl,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FetchWeather — получить погоду для query:
//  1. пустой запрос → failed(validation), сеть не трогаем;
//  2. валидная запись кэша → hit;
//  3. иначе один запрос к провайдеру в каноничных единицах → fetched или failed(network/http/not_found/decode).
//
// Ошибки не выходят за пределы метода: всё сводится к Outcome.
func (o *Orchestrator) FetchWeather(ctx context.Context, query string, view SessionView) Outcome {
	if err := validate.PlaceQuery(query); err != nil {
		o.log.Warnf(ctx, "rejected place query=%q: %v", query, err)
		return o.failed("", domain.ErrorInfo{Kind: domain.KindValidation, Message: validate.Reason(err)})
	}

	key := domain.NormalizePlace(query)
	now := o.now()

	if entry, ok := view.Cache.Lookup(key); ok {
		if memory.IsValid(entry, now, o.ttl) {
			metrics.CacheOps.WithLabelValues("hit").Inc()
			metrics.FetchOutcomes.WithLabelValues(string(OutcomeHit), "").Inc()
			o.log.Infof(ctx, "cache hit for place=%s age=%s", key, now.Sub(entry.FetchedAt).Truncate(time.Second))
			return Hit(key, entry.Snapshot)
		}
		metrics.CacheOps.WithLabelValues("expired").Inc()
		o.log.Infof(ctx, "cache entry expired for place=%s", key)
	} else {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		o.log.Infof(ctx, "cache miss for place=%s", key)
	}

	snap, err := o.roundTrip(ctx, query)
	if err != nil {
		info := domain.ErrorInfoFrom(err)
		o.log.Warnf(ctx, "provider.Current failed place=%s kind=%s status=%d err=%v", key, info.Kind, info.Status, err)
		return o.failed(key, info)
	}

	metrics.FetchOutcomes.WithLabelValues(string(OutcomeFetched), "").Inc()
	o.log.Infof(ctx, "fetched place=%s name=%s session_unit=%s", key, snap.Name, view.Unit)
	return Fetched(key, snap)
}

// roundTrip — один вызов провайдера под спаном и с замером времени.
func (o *Orchestrator) roundTrip(ctx context.Context, query string) (domain.Snapshot, error) {
	ctx, span := o.tracer.Start(ctx, "weather.provider.current",
		trace.WithAttributes(
			attribute.String("weather.provider", o.provider.Name()),
			attribute.String("weather.place", query),
			attribute.String("weather.units", CanonicalUnit.System()),
		))
	defer span.End()

	start := time.Now()
	snap, err := o.provider.Current(ctx, query, CanonicalUnit)
	metrics.ProviderLatency.WithLabelValues(o.provider.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Snapshot{}, err
	}
	if snap.Unit == "" {
		snap.Unit = CanonicalUnit
	}
	return snap, nil
}

func (o *Orchestrator) failed(key domain.PlaceKey, info domain.ErrorInfo) Outcome {
	if info.Message == "" {
		info.Message = string(info.Kind) + " error"
	}
	metrics.FetchOutcomes.WithLabelValues(string(OutcomeFailed), string(info.Kind)).Inc()
	return Failed(key, info)
}
