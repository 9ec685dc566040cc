package server

import (
	"net/http"
	"time"

	"sweetshop/internal/config"
	"sweetshop/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

var startedAt = time.Now()

type healthResponse struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
	Version     string  `json:"version"`
}

// Newはechoを組み立てて全ルートを登録する。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	sweetH *handler.SweetHandler,
	adminH *handler.AdminSweetHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/api/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, healthResponse{
			Status:      "healthy",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Uptime:      time.Since(startedAt).Seconds(),
			Environment: cfg.GoEnv,
			Version:     "1.0.0",
		})
	})

	authH.RegisterRoutes(e)
	sweetH.RegisterRoutes(e, cfg)
	adminH.RegisterRoutes(e, cfg)

	return e
}
