package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	bus *eventbus.Bus,
	jwtSvc service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// Repositories.
	userRepo := repositories.NewUserRepository(dbConn, logger)
	articleRepo := repositories.NewArticleRepository(dbConn, logger)
	loanRepo := repositories.NewLoanRepository(dbConn, logger)
	auditRepo := repositories.NewAuditRepository(dbConn)
	reportRepo := repositories.NewReportRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	articleStateRepo := repositories.NewCatalogRepository(dbConn, "article_states", true)

	// Services.
	auditService := services.NewAuditService(auditRepo, bus, logger)
	articleService := services.NewArticleService(articleRepo, articleStateRepo, auditService, logger)
	loanService := services.NewLoanService(loanRepo, articleRepo, txManager, auditService, logger)
	userService := services.NewUserService(userRepo, auditService, logger)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, auditService, cfg.Auth, logger)
	reportService := services.NewReportService(reportRepo, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, authMW, logger)
	runArticleRouter(secureGroup, articleService, logger)
	runLoanRouter(secureGroup, loanService, logger)
	runUserRouter(secureGroup, userService, logger)
	runCatalogRouter(secureGroup, dbConn, auditService, logger)
	runAuditRouter(secureGroup, auditService, logger)
	runReportRouter(secureGroup, reportService, auditService, logger)
	runHealthRouter(e, dbConn, logger)
}
