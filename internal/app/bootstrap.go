package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/weather_dash/config"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"github.com/Gunvolt24/weather_dash/internal/provider/openweather"
	"github.com/Gunvolt24/weather_dash/internal/session"
	rest "github.com/Gunvolt24/weather_dash/internal/transport/http"
	"github.com/Gunvolt24/weather_dash/internal/usecase"
	"github.com/Gunvolt24/weather_dash/pkg/logger"
	"github.com/Gunvolt24/weather_dash/pkg/metrics"
	"github.com/Gunvolt24/weather_dash/pkg/telemetry"
	"github.com/gin-gonic/gin"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, цикл сессии).
type App struct {
	Logger          ports.Logger  // логгер
	HTTPServer      *http.Server  // HTTP-сервер
	Session         ports.Runner  // владелец состояния сессии
	gracefulTimeout time.Duration // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// initialUnit — единицы сессии из конфигурации; неизвестное значение → Celsius.
func initialUnit(ctx context.Context, raw string, log ports.Logger) domain.Unit {
	u, err := domain.ParseUnit(raw)
	if err != nil {
		log.Warnf(ctx, "unknown session unit %q, fallback to %s", raw, domain.UnitCelsius)
		return domain.UnitCelsius
	}
	return u
}

// newProvider — клиент OpenWeatherMap, обёрнутый ограничителем частоты и автоматом.
func newProvider(cfg config.Provider, log ports.Logger) ports.WeatherProvider {
	var p ports.WeatherProvider = openweather.NewClient(openweather.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}, nil)

	if cfg.RateLimitRPS > 0 {
		p = openweather.NewRateLimited(p, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	// Автомат снаружи: в открытом состоянии запрос не ждёт лимитера.
	if cfg.BreakerEnabled {
		p = openweather.NewBreaker(p, openweather.BreakerSettings{
			MaxRequests:      cfg.BreakerMaxRequests,
			Interval:         cfg.BreakerInterval,
			Timeout:          cfg.BreakerTimeout,
			FailureThreshold: cfg.BreakerFailures,
		}, log)
	}
	return p
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	if cfg.Provider.APIKey == "" {
		logg.Warnf(ctx, "WEATHER_PROVIDER_API_KEY is empty, provider requests will be rejected")
	}
	provider := newProvider(cfg.Provider, logg)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := telemetry.Shutdown(telemetry.Noop)
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Provider:    provider.Name(),
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Сборка зависимостей доменного слоя.
	orchestrator := usecase.NewOrchestrator(provider, logg, cfg.Cache.TTL)
	store := session.NewStore(
		orchestrator,
		logg,
		session.Initial(cfg.Cache.Capacity, initialUnit(ctx, cfg.Session.Unit, logg)),
		session.WithFetchTimeout(cfg.Session.FetchTimeout),
	)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(store, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Session:         store,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := store.Close(); err != nil {
			logg.Warnf(ctx, "session close error: %v", err)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает HTTP-сервер и цикл сессии; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	// Цикл сессии.
	go func() {
		a.Logger.Infof(ctx, "session starting")
		if err := a.Session.Run(ctx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
			runErr = err
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка цикла сессии: запросы в полёте отменяются.
	if err := a.Session.Close(); err != nil {
		a.Logger.Warnf(ctx, "session close error: %v", err)
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
