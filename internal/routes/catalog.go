package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
)

// Reference tables share one controller implementation, mounted once per
// table under /api/catalogo.
func runCatalogRouter(g *echo.Group, dbConn *pgxpool.Pool, auditService services.AuditServiceInterface, logger *zap.Logger) {
	catalogs := g.Group("/catalogo")

	mount := func(path, table string, hasCode bool) {
		repo := repositories.NewCatalogRepository(dbConn, table, hasCode)
		svc := services.NewCatalogService(repo, auditService, table, logger)
		ctrl := controllers.NewCatalogController(svc, logger)

		group := catalogs.Group(path)
		group.GET("", ctrl.GetItems)
		group.GET("/:id", ctrl.FindItem)
		group.POST("", ctrl.CreateItem)
		group.PUT("/:id", ctrl.UpdateItem)
		group.DELETE("/:id", ctrl.DeleteItem)
	}

	mount("/roles", "roles", false)
	mount("/categorias", "categories", false)
	mount("/estados-articulo", "article_states", true)
	mount("/estados-prestamo", "loan_states", true)
}
