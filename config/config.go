package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix — префикс переменных окружения сервиса.
const Prefix = "WEATHER"

type HTTP struct {
	Addr              string        `default:":8080" envconfig:"ADDR"`
	GinMode           string        `default:"debug" envconfig:"GIN_MODE"`
	ReadTimeout       time.Duration `default:"10s" envconfig:"READ_TIMEOUT"`
	WriteTimeout      time.Duration `default:"10s" envconfig:"WRITE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `default:"5s" envconfig:"READ_HEADER_TIMEOUT"`
	IdleTimeout       time.Duration `default:"60s" envconfig:"IDLE_TIMEOUT"`
	HandlerTimeout    time.Duration `default:"3s" envconfig:"HANDLER_TIMEOUT"`
	GracefulTimeout   time.Duration `default:"5s" envconfig:"GRACEFUL_TIMEOUT"`
}

type Tracing struct {
	Enabled     bool    `default:"false" envconfig:"OTEL_ENABLED"`
	ServiceName string  `default:"weather-dash" envconfig:"OTEL_SERVICE_NAME"`
	Endpoint    string  `default:"jaeger:4318" envconfig:"OTEL_ENDPOINT"`
	SampleRatio float64 `default:"1" envconfig:"OTEL_SAMPLE_RATIO"`
}

// Provider — внешний провайдер погоды (OpenWeatherMap).
type Provider struct {
	BaseURL string        `default:"https://api.openweathermap.org/data/2.5" envconfig:"BASE_URL"`
	APIKey  string        `envconfig:"API_KEY"`
	Timeout time.Duration `default:"5s" envconfig:"TIMEOUT"`

	RateLimitRPS   float64 `default:"5" envconfig:"RATE_LIMIT_RPS"` // <= 0 — без ограничения
	RateLimitBurst int     `default:"5" envconfig:"RATE_LIMIT_BURST"`

	BreakerEnabled     bool          `default:"true" envconfig:"BREAKER_ENABLED"`
	BreakerMaxRequests uint32        `default:"1" envconfig:"BREAKER_MAX_REQUESTS"`
	BreakerInterval    time.Duration `default:"60s" envconfig:"BREAKER_INTERVAL"`
	BreakerTimeout     time.Duration `default:"30s" envconfig:"BREAKER_TIMEOUT"`
	BreakerFailures    uint32        `default:"5" envconfig:"BREAKER_FAILURES"`
}

type Cache struct {
	Capacity int           `default:"10" envconfig:"CAPACITY"`
	TTL      time.Duration `default:"10m" envconfig:"TTL"`
}

type Session struct {
	Unit         string        `default:"celsius" envconfig:"UNIT"`
	FetchTimeout time.Duration `default:"10s" envconfig:"FETCH_TIMEOUT"`
}

type Logger struct {
	IsProd bool `default:"false" envconfig:"IS_PROD"`
}

type Config struct {
	HTTP     HTTP
	Tracing  Tracing
	Provider Provider
	Cache    Cache
	Session  Session
	Logger   Logger
}

// Load — конфигурация из окружения с префиксом WEATHER.
func Load() (Config, error) { return LoadWithPrefix(Prefix) }

// LoadWithPrefix — то же с произвольным префиксом (для тестов).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}
