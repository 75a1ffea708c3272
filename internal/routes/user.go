package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runUserRouter(g *echo.Group, userService services.UserServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewUserController(userService, logger)

	users := g.Group("/usuario")
	{
		users.GET("", ctrl.GetUsers)
		users.GET("/:id", ctrl.FindUser)
		users.POST("", ctrl.CreateUser)
		users.PUT("/:id", ctrl.UpdateUser)
		users.DELETE("/:id", ctrl.DeleteUser)
	}
}
