package utility

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestGetRealIP(t *testing.T) {
	e := echo.New()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "ForwardedList", headers: map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, want: "203.0.113.7"},
		{name: "RealIP", headers: map[string]string{"X-Real-IP": "198.51.100.2"}, want: "198.51.100.2"},
		{name: "BlankForwardedFallsThrough", headers: map[string]string{"X-Forwarded-For": " , 10.0.0.1", "X-Real-IP": " 198.51.100.3 "}, want: "198.51.100.3"},
		{name: "RemoteAddr", want: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			assert.Equal(t, tt.want, GetRealIP(c))
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Same(t, &log.Logger, LoggerFromContext(c))

	scoped := zerolog.Nop()
	c.Set(ContextKeyLogger, &scoped)
	assert.Same(t, &scoped, LoggerFromContext(c))
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	SetupLogger("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger("nonsense", "console")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
