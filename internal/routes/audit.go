package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runAuditRouter(g *echo.Group, auditService services.AuditServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewAuditController(auditService, logger)

	audit := g.Group("/auditoria")
	{
		audit.GET("", ctrl.GetLogs)
		audit.GET("/total", ctrl.Count)
		audit.GET("/:id", ctrl.FindLog)
		audit.DELETE("/limpiar", ctrl.Cleanup)
	}
}
