package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runArticleRouter(g *echo.Group, articleService services.ArticleServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewArticleController(articleService, logger)

	articles := g.Group("/articulo")
	{
		articles.GET("", ctrl.GetArticles)
		articles.GET("/disponibles", ctrl.GetAvailable)
		articles.GET("/stock-bajo", ctrl.GetLowStock)
		articles.GET("/stock-resumen", ctrl.GetStockSummary)
		articles.GET("/:id", ctrl.FindArticle)
		articles.POST("", ctrl.CreateArticle)
		articles.PUT("/:id", ctrl.UpdateArticle)
		articles.DELETE("/:id", ctrl.DeleteArticle)
	}
}
