package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type AuditController struct {
	auditService services.AuditServiceInterface
	logger       *zap.Logger
}

func NewAuditController(auditService services.AuditServiceInterface, logger *zap.Logger) *AuditController {
	return &AuditController{auditService: auditService, logger: logger}
}

func (c *AuditController) GetLogs(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	dateFrom, err := parseDateParam(ctx, "fechaInicio")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	dateTo, err := parseDateParam(ctx, "fechaFin")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	logs, total, err := c.auditService.GetLogs(ctx.Request().Context(), filter, dateFrom, dateTo)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.ListResponse(ctx, logs, "audit logs retrieved", utils.BuildPagination(total, filter))
}

func (c *AuditController) FindLog(ctx echo.Context) error {
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	log, err := c.auditService.FindByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, log, "audit log retrieved", http.StatusOK)
}

func (c *AuditController) Count(ctx echo.Context) error {
	total, err := c.auditService.Count(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]uint64{"total": total}, "audit log count retrieved", http.StatusOK)
}

func (c *AuditController) Cleanup(ctx echo.Context) error {
	days, err := strconv.Atoi(ctx.QueryParam("dias"))
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "invalid days parameter", err, nil), c.logger)
	}

	result, err := c.auditService.Cleanup(ctx.Request().Context(), days)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "audit logs cleaned up", http.StatusOK)
}

func parseDateParam(ctx echo.Context, name string) (*time.Time, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.NewHttpError(http.StatusBadRequest, "invalid date parameter",
		nil, map[string]interface{}{"param": name, "value": raw})
}
