package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const auditTable = "audit_logs"
const auditFields = "id, user_id, action, table_name, record_id, old_value, new_value, client_ip, user_agent, request_id, created_at"

var auditFilterColumns = map[string]string{
	"usuario_id": "user_id",
	"tabla":      "table_name",
	"accion":     "action",
}

func scanAuditLog(row pgx.Row) (*entities.AuditLog, error) {
	var a entities.AuditLog
	err := row.Scan(
		&a.ID, &a.UserID, &a.Action, &a.TableName, &a.RecordID,
		&a.OldValue, &a.NewValue, &a.ClientIP, &a.UserAgent, &a.RequestID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func auditToDTO(a *entities.AuditLog) dto.AuditLogDTO {
	d := dto.AuditLogDTO{
		ID:        a.ID,
		Action:    a.Action,
		TableName: a.TableName,
		OldValue:  a.OldValue,
		NewValue:  a.NewValue,
		ClientIP:  a.ClientIP.String,
		UserAgent: a.UserAgent.String,
		RequestID: a.RequestID.String,
		CreatedAt: a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
	}
	if a.UserID.Valid {
		id := uint64(a.UserID.Int64)
		d.UserID = &id
	}
	if a.RecordID.Valid {
		id := uint64(a.RecordID.Int64)
		d.RecordID = &id
	}
	return d
}

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, entry entities.AuditLog) error
	FindByID(ctx context.Context, id uint64) (*dto.AuditLogDTO, error)
	GetLogs(ctx context.Context, filter types.Filter, dateFrom, dateTo *time.Time) ([]dto.AuditLogDTO, uint64, error)
	Count(ctx context.Context) (uint64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &AuditRepository{storage: storage}
}

func (r *AuditRepository) Insert(ctx context.Context, entry entities.AuditLog) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(user_id, action, table_name, record_id, old_value, new_value, client_ip, user_agent, request_id)
		VALUES (@user_id, @action, @table_name, @record_id, @old_value, @new_value, @client_ip, @user_agent, @request_id)`,
		auditTable)
	args := pgx.NamedArgs{
		"user_id":    nullInt64(entry.UserID),
		"action":     entry.Action,
		"table_name": entry.TableName,
		"record_id":  nullInt64(entry.RecordID),
		"old_value":  nullBytes(entry.OldValue),
		"new_value":  nullBytes(entry.NewValue),
		"client_ip":  nullIfEmpty(entry.ClientIP.String),
		"user_agent": nullIfEmpty(entry.UserAgent.String),
		"request_id": nullIfEmpty(entry.RequestID.String),
	}
	_, err := r.storage.Exec(ctx, query, args)
	return err
}

func (r *AuditRepository) FindByID(ctx context.Context, id uint64) (*dto.AuditLogDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", auditFields, auditTable)
	a, err := scanAuditLog(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	entryDTO := auditToDTO(a)
	return &entryDTO, nil
}

// GetLogs serves all the read paths: by user, table, action and date range,
// always newest first.
func (r *AuditRepository) GetLogs(ctx context.Context, filter types.Filter, dateFrom, dateTo *time.Time) ([]dto.AuditLogDTO, uint64, error) {
	base := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From(auditTable)

	for key, val := range filter.Filter {
		col, ok := auditFilterColumns[key]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			base = base.Where(sq.Eq{col: strings.Split(s, ",")})
		} else {
			base = base.Where(sq.Eq{col: val})
		}
	}
	if dateFrom != nil {
		base = base.Where(sq.GtOrEq{"created_at": *dateFrom})
	}
	if dateTo != nil {
		base = base.Where(sq.LtOrEq{"created_at": *dateTo})
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.AuditLogDTO{}, 0, nil
	}

	main := base.Columns(strings.Split(auditFields, ", ")...).OrderBy("id DESC")
	if filter.Limit > 0 {
		main = main.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := main.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]dto.AuditLogDTO, 0)
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, auditToDTO(a))
	}
	return logs, total, rows.Err()
}

func (r *AuditRepository) Count(ctx context.Context) (uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", auditTable)).Scan(&total)
	return total, err
}

// DeleteOlderThan hard-deletes entries before the cutoff and reports how
// many rows went away.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE created_at < $1", auditTable), cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func nullInt64(v sql.NullInt64) interface{} {
	if v.Valid {
		return v.Int64
	}
	return nil
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
