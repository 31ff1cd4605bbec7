package server

import (
	"fmt"
	"net/http"
	"time"

	"ApexAI/internal/fitness"
	"ApexAI/internal/utility"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

const greeting = "Hello, Apex AI is running!"

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	// Every origin is allowed on every route. AllowHeaders stays empty so
	// preflights get back whatever headers they asked for.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		MaxAge:       300,
	}))

	e.Use(LoggerMiddleware)
	e.Use(RequestLogMiddleware())

	e.GET("/", s.homeHandler)
	e.GET("/health", s.healthHandler)

	plans := fitness.NewHandler(s.planner)
	e.POST("/generate_workout_plan", plans.GenerateWorkoutPlanHandler)
	e.POST("/generate_meal_plan", plans.GenerateMealPlanHandler)

	return e
}

func (s *Server) homeHandler(c echo.Context) error {
	return c.String(http.StatusOK, greeting)
}

// healthHandler reports process and host health alongside the Gemini setup.
func (s *Server) healthHandler(c echo.Context) error {
	health := map[string]interface{}{
		"status":             "up",
		"uptime":             time.Since(s.startedAt).Round(time.Second).String(),
		"model":              s.cfg.GeminiModel,
		"api_key_configured": s.cfg.HasAPIKey(),
		"plan_cache_enabled": s.cacheEnabled,
	}

	if v, err := mem.VirtualMemory(); err == nil {
		health["ram_usage"] = fmt.Sprintf("%.1f%%", v.UsedPercent)
	}
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		health["cpu_load"] = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}

	return c.JSON(http.StatusOK, health)
}

// LoggerMiddleware tags each request with an id and a child logger carrying it.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(utility.ContextKeyRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		c.Set(utility.ContextKeyLogger, &logger)

		// Downstream code reads the logger with zerolog.Ctx.
		req := c.Request()
		c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

		return next(c)
	}
}

// RequestLogMiddleware writes one zerolog line per request.
func RequestLogMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := utility.LoggerFromContext(c)
			event := logger.Info()
			if v.Status >= http.StatusInternalServerError {
				event = logger.Error()
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", utility.GetRealIP(c)).
				Msg("request")
			return nil
		},
	})
}
