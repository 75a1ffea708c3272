package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type ArticleController struct {
	articleService services.ArticleServiceInterface
	logger         *zap.Logger
}

func NewArticleController(articleService services.ArticleServiceInterface, logger *zap.Logger) *ArticleController {
	return &ArticleController{articleService: articleService, logger: logger}
}

func (c *ArticleController) GetArticles(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	articles, total, err := c.articleService.GetArticles(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, articles, "articles retrieved", utils.BuildPagination(total, filter))
}

func (c *ArticleController) GetAvailable(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	articles, total, err := c.articleService.GetAvailable(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, articles, "available articles retrieved", utils.BuildPagination(total, filter))
}

func (c *ArticleController) GetLowStock(ctx echo.Context) error {
	minStock := 5
	if raw := ctx.QueryParam("stockMinimo"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return utils.ErrorResponse(ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "invalid minimum stock", err, nil), c.logger)
		}
		minStock = parsed
	}

	articles, err := c.articleService.GetLowStock(ctx.Request().Context(), minStock)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, articles, "low stock articles retrieved", http.StatusOK)
}

func (c *ArticleController) GetStockSummary(ctx echo.Context) error {
	summary, err := c.articleService.GetStockSummary(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summary, "stock summary retrieved", http.StatusOK)
}

func (c *ArticleController) FindArticle(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	article, err := c.articleService.FindArticle(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, article, "article retrieved", http.StatusOK)
}

func (c *ArticleController) CreateArticle(ctx echo.Context) error {
	var payload dto.CreateArticleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil), c.logger)
	}

	article, err := c.articleService.CreateArticle(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, article, "article created", http.StatusCreated)
}

func (c *ArticleController) UpdateArticle(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateArticleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid request body", err, nil), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil), c.logger)
	}

	article, err := c.articleService.UpdateArticle(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, article, "article updated", http.StatusOK)
}

func (c *ArticleController) DeleteArticle(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.articleService.DeleteArticle(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "article deleted", http.StatusOK)
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid id",
			err, map[string]interface{}{"param": ctx.Param("id")})
	}
	return id, nil
}
