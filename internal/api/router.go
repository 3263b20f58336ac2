package api

import (
	"strings"

	"github.com/jacktracker/jacktracker/internal/api/controllers"
	"github.com/jacktracker/jacktracker/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {
	cfg := app.Config

	e.Use(middleware.Recover())

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			app.Logger.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
	}))

	wsCtrl := controllers.NewWSController(app)
	queueCtrl := &controllers.QueueController{App: app}
	historyCtrl := &controllers.HistoryController{App: app}
	filesCtrl := controllers.NewFilesController(app)

	// Observer channel
	e.GET(cfg.Server.WSPath, wsCtrl.Handle)

	api := e.Group("/api")
	api.GET("/health", queueCtrl.Health)
	api.GET("/queue", queueCtrl.List)
	api.POST("/downloads", queueCtrl.Create)
	api.GET("/history", historyCtrl.List)

	// Completed files, addressed by the filePath carried in complete events
	files := strings.TrimSuffix(cfg.Download.Route, "/") + "/*"
	e.GET(files, filesCtrl.Serve)
	e.HEAD(files, filesCtrl.Serve)
}
