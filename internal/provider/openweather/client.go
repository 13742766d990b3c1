package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
)

// Проверка, что Client удовлетворяет порту провайдера погоды.
var _ ports.WeatherProvider = (*Client)(nil)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config — параметры клиента OpenWeatherMap.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client — HTTP-клиент данных текущей погоды OpenWeatherMap.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient — конструктор. httpClient == nil → клиент с таймаутом из конфига.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, apiKey: cfg.APIKey, httpClient: httpClient}
}

func (c *Client) Name() string { return "openweathermap" }

// Current — GET {base}/weather?q=&appid=&units=.
// Все ошибки — *domain.FetchError: network (нет ответа), http/not_found (не 2xx), decode (2xx не той формы).
func (c *Client) Current(ctx context.Context, place string, unit domain.Unit) (domain.Snapshot, error) {
	params := url.Values{}
	params.Set("q", strings.TrimSpace(place))
	params.Set("appid", c.apiKey)
	params.Set("units", unit.System())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), http.NoBody)
	if err != nil {
		return domain.Snapshot{}, domain.NetworkError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Snapshot{}, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Snapshot{}, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Snapshot{}, domain.StatusError(resp.StatusCode, errorMessage(body))
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Snapshot{}, domain.DecodeError(resp.StatusCode, err)
	}
	if err := payload.check(); err != nil {
		return domain.Snapshot{}, domain.DecodeError(resp.StatusCode, err)
	}

	return payload.snapshot(unit), nil
}

// transportError — ошибка без ответа сервера.
func transportError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NetworkError("weather provider timed out", err)
	case errors.Is(err, context.Canceled):
		return domain.NetworkError("request canceled", err)
	default:
		return domain.NetworkError("network error: unable to reach weather provider", err)
	}
}

// errorMessage — поле message из тела ошибки, если оно есть.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if len(body) == 0 || json.Unmarshal(body, &e) != nil {
		return ""
	}
	return strings.TrimSpace(e.Message)
}
