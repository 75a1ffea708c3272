package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runReportRouter(g *echo.Group, reportService services.ReportServiceInterface, auditService services.AuditServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewReportController(reportService, auditService, logger)

	reports := g.Group("/reporte")
	{
		reports.GET("/prestamos", ctrl.GetLoanReport)
		reports.GET("/articulos", ctrl.GetArticleReport)
	}
}
