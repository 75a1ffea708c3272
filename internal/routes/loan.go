package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/services"
)

func runLoanRouter(g *echo.Group, loanService services.LoanServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewLoanController(loanService, logger)

	loans := g.Group("/prestamo")
	{
		loans.GET("", ctrl.GetLoans)
		loans.GET("/vencidos", ctrl.GetOverdue)
		loans.GET("/:id", ctrl.FindLoan)
		loans.POST("", ctrl.CreateLoan)
		loans.PUT("/:id", ctrl.UpdateLoan)
		loans.DELETE("/:id", ctrl.DeleteLoan)
		loans.POST("/:id/aprobar", ctrl.ApproveLoan)
		loans.POST("/:id/rechazar", ctrl.RejectLoan)
		loans.POST("/:id/entregar", ctrl.DeliverLoan)
		loans.POST("/:id/devolver", ctrl.ReturnLoan)
	}
}
