package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRoutes(engine *echo.Echo) {
	engine.GET("/health", h.echoHandler(h.HealthCheck))
	engine.GET("/version", h.echoHandler(h.Version))
	engine.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := engine.Group("/api", echo.WrapMiddleware(LoggerMiddleware))
	// v1 routes
	{
		apiV1 := api.Group("/v1")
		apiV1.GET("/decisions", h.echoHandler(h.ListDecisions))
		apiV1.GET("/adjustments", h.echoHandler(h.ListAdjustments))
		apiV1.GET("/classes", h.echoHandler(h.ListClasses))
		apiV1.GET("/hysteresis", h.echoHandler(h.ListHysteresis))
	}
}

func (h *Handler) echoHandler(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return echo.WrapHandler(http.HandlerFunc(handlerFunc))
}
