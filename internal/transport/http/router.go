package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Gunvolt24/weather_dash/internal/cache/memory"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/ports"
	"github.com/Gunvolt24/weather_dash/internal/session"
	"github.com/Gunvolt24/weather_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	defaultHandlerTimeout = 3 * time.Second
	recentLimit           = 6
)

// Handler — HTTP-граница представления: читает состояние сессии и отправляет команды.
type Handler struct {
	store   *session.Store
	log     ports.Logger
	timeout time.Duration // сколько синхронный поиск ждёт результата
}

// NewHandler — конструктор; timeout <= 0 → 3s.
func NewHandler(store *session.Store, log ports.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	return &Handler{store: store, log: log, timeout: timeout}
}

// NewRouter — gin-роутер; otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(httpx.RequestIDMiddleware())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/state", h.getState)
		api.GET("/recent", h.listRecent)

		api.POST("/weather/:place", h.requestWeather)
		api.DELETE("/weather", h.clearWeather)
		api.POST("/retry", h.retry)

		api.POST("/unit/toggle", h.toggleUnit)
		api.DELETE("/error", h.clearError)

		api.DELETE("/cache/:key", h.evictOne)
		api.DELETE("/cache", h.clearCache)
	}

	return r
}

func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, toStateResponse(h.store.State()))
}

func (h *Handler) listRecent(c *gin.Context) {
	st := h.store.State()
	limit := httpx.ParseLimit(c, recentLimit, memory.MaxSize)

	places := cacheView(st, limit)
	c.JSON(http.StatusOK, recentResponse{
		Unit:   st.Unit,
		Places: places,
		More:   st.Cache.Len() - len(places),
	})
}

// requestWeather — поиск места. По умолчанию ждёт результата не дольше timeout;
// ?async=1 сразу отвечает 202 с токеном запроса.
func (h *Handler) requestWeather(c *gin.Context) {
	token, err := h.store.RequestWeather(c.Request.Context(), c.Param("place"))
	if err != nil {
		h.commandError(c, "request weather", err)
		return
	}
	h.respondAfterRequest(c, token)
}

func (h *Handler) retry(c *gin.Context) {
	token, err := h.store.Retry(c.Request.Context())
	if err != nil {
		h.commandError(c, "retry", err)
		return
	}
	h.respondAfterRequest(c, token)
}

func (h *Handler) respondAfterRequest(c *gin.Context, token uint64) {
	if httpx.QueryFlag(c, "async") {
		c.JSON(http.StatusAccepted, tokenResponse{Token: token, State: toStateResponse(h.store.State())})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	st, err := h.store.Wait(ctx, token)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// запрос ещё в полёте: клиент опрашивает /api/state
		c.JSON(http.StatusAccepted, tokenResponse{Token: token, State: toStateResponse(st)})
		return
	case err != nil:
		h.commandError(c, "wait weather", err)
		return
	}

	code := http.StatusOK
	if st.LatestToken == token && st.Status == session.StatusError && st.LastError != nil {
		code = statusForError(*st.LastError)
	}
	c.JSON(code, tokenResponse{Token: token, State: toStateResponse(st)})
}

func (h *Handler) toggleUnit(c *gin.Context) {
	h.command(c, "toggle unit", h.store.ToggleUnit)
}

func (h *Handler) clearError(c *gin.Context) {
	h.command(c, "clear error", h.store.ClearError)
}

func (h *Handler) clearWeather(c *gin.Context) {
	h.command(c, "clear weather", h.store.ClearWeather)
}

func (h *Handler) clearCache(c *gin.Context) {
	h.command(c, "clear cache", h.store.ClearCache)
}

func (h *Handler) evictOne(c *gin.Context) {
	key := domain.PlaceKey(c.Param("key"))
	h.command(c, "evict place", func(ctx context.Context) (session.State, error) {
		return h.store.EvictOne(ctx, key)
	})
}

func (h *Handler) command(c *gin.Context, name string, fn func(context.Context) (session.State, error)) {
	st, err := fn(c.Request.Context())
	if err != nil {
		h.commandError(c, name, err)
		return
	}
	c.JSON(http.StatusOK, toStateResponse(st))
}

func (h *Handler) commandError(c *gin.Context, name string, err error) {
	switch {
	case errors.Is(err, session.ErrNothingToRetry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(c.Request.Context(), "%s aborted: %v", name, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request canceled"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// statusForError — HTTP-код ответа для ошибки запроса погоды.
func statusForError(info domain.ErrorInfo) int {
	switch info.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
