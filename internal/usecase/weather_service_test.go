package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/cache/memory"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports/mocks"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
	"github.com/golang/mock/gomock"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func london() domain.Snapshot {
	return domain.Snapshot{
		Name:    "London",
		Country: "GB",
		Temp:    domain.Temperatures{Current: 22, FeelsLike: 24, Min: 18, Max: 26},
		Unit:    domain.UnitCelsius,
	}
}

func newOrchestrator(provider *mocks.MockWeatherProvider) *usecase.Orchestrator {
	provider.EXPECT().Name().Return("fake").AnyTimes()
	return usecase.NewOrchestrator(provider, noopLogger{}, memory.DefaultTTL, usecase.WithClock(func() time.Time { return now }))
}

func cacheWith(key domain.PlaceKey, s domain.Snapshot, fetchedAt time.Time) memory.Cache {
	c, _ := memory.New(0).Upsert(key, s, fetchedAt)
	return c
}

func TestFetchWeather_EmptyQuery_NoNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)
	provider.EXPECT().Current(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	o := newOrchestrator(provider)

	out := o.FetchWeather(context.Background(), "   ", usecase.SessionView{Unit: domain.UnitCelsius})
	if out.Kind != usecase.OutcomeFailed || out.Err == nil || out.Err.Kind != domain.KindValidation {
		t.Fatalf("expected validation failure, got %+v", out)
	}
	if out.Err.Message == "" {
		t.Fatalf("validation error must carry a message")
	}
}

func TestFetchWeather_CacheMiss_Fetched(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)
	provider.EXPECT().Current(gomock.Any(), "London", usecase.CanonicalUnit).Return(london(), nil)

	o := newOrchestrator(provider)

	out := o.FetchWeather(context.Background(), "London", usecase.SessionView{Unit: domain.UnitCelsius, Cache: memory.New(0)})
	if out.Kind != usecase.OutcomeFetched || out.Key != "london" || out.Snapshot.Name != "London" {
		t.Fatalf("expected fetched london, got %+v", out)
	}
}

func TestFetchWeather_ValidEntry_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)
	provider.EXPECT().Current(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	o := newOrchestrator(provider)
	cache := cacheWith("london", london(), now.Add(-9*time.Minute))

	// разный регистр и пробелы — тот же ключ
	out := o.FetchWeather(context.Background(), "  LONDON ", usecase.SessionView{Unit: domain.UnitCelsius, Cache: cache})
	if out.Kind != usecase.OutcomeHit || out.Key != "london" || out.Snapshot.Temp.Current != 22 {
		t.Fatalf("expected hit, got %+v", out)
	}
}

func TestFetchWeather_StaleEntry_Refetched(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)

	fresh := london()
	fresh.Temp.Current = 23
	provider.EXPECT().Current(gomock.Any(), "London", usecase.CanonicalUnit).Return(fresh, nil).Times(1)

	o := newOrchestrator(provider)
	cache := cacheWith("london", london(), now.Add(-11*time.Minute))

	out := o.FetchWeather(context.Background(), "London", usecase.SessionView{Unit: domain.UnitCelsius, Cache: cache})
	if out.Kind != usecase.OutcomeFetched || out.Snapshot.Temp.Current != 23 {
		t.Fatalf("expected refetch, got %+v", out)
	}
}

func TestFetchWeather_AlwaysRequestsCanonicalUnit(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)

	untagged := london()
	untagged.Unit = ""
	provider.EXPECT().Current(gomock.Any(), "London", domain.UnitCelsius).Return(untagged, nil)

	o := newOrchestrator(provider)

	out := o.FetchWeather(context.Background(), "London", usecase.SessionView{Unit: domain.UnitFahrenheit})
	if out.Kind != usecase.OutcomeFetched || out.Snapshot.Unit != usecase.CanonicalUnit {
		t.Fatalf("snapshot must be tagged with canonical unit, got %+v", out)
	}
}

func TestFetchWeather_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)
	provider.EXPECT().Current(gomock.Any(), "Atlantis", gomock.Any()).
		Return(domain.Snapshot{}, domain.StatusError(404, "city not found"))

	o := newOrchestrator(provider)

	out := o.FetchWeather(context.Background(), "Atlantis", usecase.SessionView{})
	if out.Kind != usecase.OutcomeFailed || out.Key != "atlantis" {
		t.Fatalf("expected failure, got %+v", out)
	}
	if out.Err.Kind != domain.KindNotFound || out.Err.Message != "city not found" || out.Err.Status != 404 {
		t.Fatalf("unexpected error info: %+v", out.Err)
	}
}

func TestFetchWeather_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.ErrorKind
		wantMsg  string
	}{
		{"http", domain.StatusError(500, ""), domain.KindHTTP, "request failed: 500 Internal Server Error"},
		{"network", domain.NetworkError("network error: unable to reach weather provider", errors.New("refused")), domain.KindNetwork, "network error: unable to reach weather provider"},
		{"decode", domain.DecodeError(200, errors.New("eof")), domain.KindDecode, domain.MalformedResponseMessage},
		{"untyped", errors.New("boom"), domain.KindNetwork, "boom"},
		{"deadline", context.DeadlineExceeded, domain.KindNetwork, "request timed out"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			provider := mocks.NewMockWeatherProvider(ctrl)
			provider.EXPECT().Current(gomock.Any(), "Paris", gomock.Any()).Return(domain.Snapshot{}, tt.err)

			o := newOrchestrator(provider)

			out := o.FetchWeather(context.Background(), "Paris", usecase.SessionView{})
			if out.Kind != usecase.OutcomeFailed || out.Err == nil {
				t.Fatalf("expected failure, got %+v", out)
			}
			if out.Err.Kind != tt.wantKind || out.Err.Message != tt.wantMsg {
				t.Fatalf("got kind=%s msg=%q, want kind=%s msg=%q", out.Err.Kind, out.Err.Message, tt.wantKind, tt.wantMsg)
			}
		})
	}
}

func TestFetchWeather_DoesNotMutateCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockWeatherProvider(ctrl)
	provider.EXPECT().Current(gomock.Any(), "Paris", gomock.Any()).Return(domain.Snapshot{Name: "Paris"}, nil)

	o := newOrchestrator(provider)
	cache := cacheWith("london", london(), now)

	_ = o.FetchWeather(context.Background(), "Paris", usecase.SessionView{Cache: cache})
	if cache.Len() != 1 {
		t.Fatalf("orchestrator must not touch the cache, len=%d", cache.Len())
	}
}
