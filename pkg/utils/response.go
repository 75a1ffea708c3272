package utils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// HttpResponse is the uniform envelope every endpoint returns.
type HttpResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListBody wraps list results inside the Data field of the envelope.
type ListBody struct {
	Items        interface{} `json:"items"`
	TotalRecords uint64      `json:"totalRecords"`
	CurrentPage  int         `json:"currentPage"`
	TotalPages   int         `json:"totalPages"`
}

func SuccessResponse(ctx echo.Context, data interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ListResponse(ctx echo.Context, items interface{}, message string, p types.Pagination) error {
	return ctx.JSON(http.StatusOK, &HttpResponse{
		Success: true,
		Message: message,
		Data: &ListBody{
			Items:        items,
			TotalRecords: p.TotalRecords,
			CurrentPage:  p.CurrentPage,
			TotalPages:   p.TotalPages,
		},
	})
}

// ErrorResponse converts err to the envelope. Only the client-safe message
// leaves the process; the wrapped error and its context go to the log.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.Status(err)
	message := apperrors.PublicMessage(err)

	fields := []zap.Field{
		zap.String("method", ctx.Request().Method),
		zap.String("uri", ctx.Request().RequestURI),
		zap.Int("status", code),
		zap.Error(err),
	}
	if httpErr, ok := err.(*apperrors.HttpError); ok && httpErr.Context != nil {
		fields = append(fields, zap.Any("context", httpErr.Context))
	}
	if code >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
	} else {
		logger.Warn("request rejected", fields...)
	}

	return ctx.JSON(code, &HttpResponse{
		Success: false,
		Message: message,
	})
}
