package controllers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/pkg/utils"
)

type HealthController struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHealthController(db *pgxpool.Pool, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, logger: logger}
}

func (c *HealthController) Check(ctx echo.Context) error {
	dbStatus := "ok"
	if err := c.db.Ping(ctx.Request().Context()); err != nil {
		c.logger.Error("health check: database unreachable", zap.Error(err))
		dbStatus = "unreachable"
	}
	return utils.SuccessResponse(ctx, map[string]string{"database": dbStatus}, "service is up", http.StatusOK)
}
