package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
)

func runHealthRouter(e *echo.Echo, dbConn *pgxpool.Pool, logger *zap.Logger) {
	ctrl := controllers.NewHealthController(dbConn, logger)
	e.GET("/health", ctrl.Check)
}
