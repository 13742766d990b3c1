package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/weather_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/?"+rawQuery, http.NoBody)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		v, lo, hi int
		want      int
	}{
		{"below_min", 0, 1, 10, 1},
		{"above_max", 11, 1, 10, 10},
		{"inside", 5, 1, 10, 5},
		{"equal_min", 1, 1, 10, 1},
		{"equal_max", 10, 1, 10, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := httpx.ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("ClampInt(%d,%d,%d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rawQuery     string
		defaultLimit int
		maxLimit     int
		want         int
	}{
		{"no_query", "", 6, 10, 6},
		{"default_above_max", "", 20, 10, 10},
		{"ok", "limit=3", 6, 10, 3},
		{"spaces", "limit=%204", 6, 10, 4},
		{"zero_clamped", "limit=0", 6, 10, 1},
		{"negative_clamped", "limit=-5", 6, 10, 1},
		{"above_max_clamped", "limit=999", 6, 10, 10},
		{"non_int_uses_default", "limit=foo", 6, 10, 6},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := ctxWithQuery(tt.rawQuery)
			if got := httpx.ParseLimit(c, tt.defaultLimit, tt.maxLimit); got != tt.want {
				t.Fatalf("got limit=%d, want %d (query=%q)", got, tt.want, tt.rawQuery)
			}
		})
	}
}

func TestQueryFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rawQuery string
		want     bool
	}{
		{"", false},
		{"async", true},
		{"async=1", true},
		{"async=TRUE", true},
		{"async=on", true},
		{"async=0", false},
		{"async=no", false},
		{"other=1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.rawQuery, func(t *testing.T) {
			t.Parallel()
			if got := httpx.QueryFlag(ctxWithQuery(tt.rawQuery), "async"); got != tt.want {
				t.Fatalf("QueryFlag(%q) = %v, want %v", tt.rawQuery, got, tt.want)
			}
		})
	}
}
