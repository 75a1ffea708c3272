package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/eventbus"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const auditEventName = "audit.entry"

// auditEvent crosses the eventbus from the request goroutine to the
// listener that persists it.
type auditEvent struct {
	entry entities.AuditLog
}

func (e auditEvent) Name() string { return auditEventName }

type AuditServiceInterface interface {
	// LogAction records who did what, best-effort. It never returns an
	// error: a failed audit write must not fail the business operation.
	LogAction(ctx context.Context, action, tableName string, recordID *uint64, oldValue, newValue interface{})
	FindByID(ctx context.Context, id uint64) (*dto.AuditLogDTO, error)
	GetLogs(ctx context.Context, filter types.Filter, dateFrom, dateTo *time.Time) ([]dto.AuditLogDTO, uint64, error)
	Count(ctx context.Context) (uint64, error)
	Cleanup(ctx context.Context, days int) (*dto.CleanupResultDTO, error)
}

type AuditService struct {
	auditRepo repositories.AuditRepositoryInterface
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewAuditService(auditRepo repositories.AuditRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) AuditServiceInterface {
	s := &AuditService{
		auditRepo: auditRepo,
		bus:       bus,
		logger:    logger,
	}
	bus.Subscribe(auditEventName, s.persist)
	return s
}

func (s *AuditService) persist(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(auditEvent)
	if !ok {
		return nil
	}
	return s.auditRepo.Insert(ctx, e.entry)
}

func (s *AuditService) LogAction(ctx context.Context, action, tableName string, recordID *uint64, oldValue, newValue interface{}) {
	entry := entities.AuditLog{
		Action:    action,
		TableName: tableName,
		ClientIP:  sql.NullString{String: utils.GetClientIPFromCtx(ctx), Valid: utils.GetClientIPFromCtx(ctx) != ""},
		UserAgent: sql.NullString{String: utils.GetUserAgentFromCtx(ctx), Valid: utils.GetUserAgentFromCtx(ctx) != ""},
		RequestID: sql.NullString{String: utils.GetRequestIDFromCtx(ctx), Valid: utils.GetRequestIDFromCtx(ctx) != ""},
	}
	if userID := utils.UserIDOrNil(ctx); userID != nil {
		entry.UserID = sql.NullInt64{Int64: int64(*userID), Valid: true}
	}
	if recordID != nil {
		entry.RecordID = sql.NullInt64{Int64: int64(*recordID), Valid: true}
	}
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			entry.OldValue = b
		} else {
			s.logger.Warn("failed to serialize audit old value", zap.Error(err))
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValue = b
		} else {
			s.logger.Warn("failed to serialize audit new value", zap.Error(err))
		}
	}

	s.bus.Publish(ctx, auditEvent{entry: entry})
}

func (s *AuditService) FindByID(ctx context.Context, id uint64) (*dto.AuditLogDTO, error) {
	return s.auditRepo.FindByID(ctx, id)
}

func (s *AuditService) GetLogs(ctx context.Context, filter types.Filter, dateFrom, dateTo *time.Time) ([]dto.AuditLogDTO, uint64, error) {
	return s.auditRepo.GetLogs(ctx, filter, dateFrom, dateTo)
}

func (s *AuditService) Count(ctx context.Context) (uint64, error) {
	return s.auditRepo.Count(ctx)
}

func (s *AuditService) Cleanup(ctx context.Context, days int) (*dto.CleanupResultDTO, error) {
	if days <= 0 {
		return nil, apperrors.NewInvalidInputError("cleanup requires a positive number of days")
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := s.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("audit cleanup failed", zap.Int("days", days), zap.Error(err))
		return nil, err
	}
	s.LogAction(ctx, constants.ActionCleanup, "audit_logs", nil, nil, map[string]interface{}{"days": days, "deleted": deleted})
	return &dto.CleanupResultDTO{DeletedRows: deleted, CutoffDays: days}, nil
}
