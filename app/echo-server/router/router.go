package router

import (
	"net/http"

	"myTrekMarket/internal/middleware"
	"myTrekMarket/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Get)
	reco.GET("/me", handler.GetMine, middleware.AuthMiddleware())
}

func SetTrekRoutes(api *echo.Group, handler *rest.TrekHandler) {
	treks := api.Group("/treks")
	treks.GET("", handler.ListTreks)
	treks.GET("/:id", handler.GetTrek)
}

func SetOpsRoutes(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
