package app

import (
	"context"
	"testing"

	"github.com/Gunvolt24/weather_dash/config"
	"github.com/Gunvolt24/weather_dash/internal/domain"
	"github.com/Gunvolt24/weather_dash/internal/provider/openweather"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{ warns int }

func (*nopLogger) Infof(context.Context, string, ...any)   {}
func (l *nopLogger) Warnf(context.Context, string, ...any) { l.warns++ }
func (*nopLogger) Errorf(context.Context, string, ...any)  {}

func TestInitialUnit(t *testing.T) {
	log := &nopLogger{}

	assert.Equal(t, domain.UnitFahrenheit, initialUnit(context.Background(), "fahrenheit", log))
	assert.Equal(t, domain.UnitCelsius, initialUnit(context.Background(), "metric", log))
	assert.Equal(t, 0, log.warns)

	assert.Equal(t, domain.UnitCelsius, initialUnit(context.Background(), "kelvin", log))
	assert.Equal(t, 1, log.warns)
}

func TestApplyGinMode_UnknownFallsBackToDebug(t *testing.T) {
	defer gin.SetMode(gin.TestMode)
	log := &nopLogger{}

	applyGinMode(context.Background(), "release", log)
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	applyGinMode(context.Background(), "bogus", log)
	assert.Equal(t, gin.DebugMode, gin.Mode())
	assert.Equal(t, 1, log.warns)
}

func TestNewProvider_Decorators(t *testing.T) {
	log := &nopLogger{}

	p := newProvider(config.Provider{RateLimitRPS: 1, RateLimitBurst: 1, BreakerEnabled: true}, log)
	_, isBreaker := p.(*openweather.Breaker)
	assert.True(t, isBreaker, "breaker must be the outermost decorator")
	assert.Equal(t, "openweathermap", p.Name())

	p = newProvider(config.Provider{}, log)
	_, isClient := p.(*openweather.Client)
	assert.True(t, isClient)
}
