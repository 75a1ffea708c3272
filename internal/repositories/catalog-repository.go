package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type dbCatalogItem struct {
	ID        uint64
	Code      sql.NullString
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (db *dbCatalogItem) toDTO() dto.CatalogItemDTO {
	return dto.CatalogItemDTO{
		ID:        db.ID,
		Code:      db.Code.String,
		Name:      db.Name,
		Active:    db.Active,
		CreatedAt: db.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt: db.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}

type CatalogRepositoryInterface interface {
	GetItems(ctx context.Context, limit, offset uint64, includeInactive bool) ([]dto.CatalogItemDTO, uint64, error)
	FindItem(ctx context.Context, id uint64) (*dto.CatalogItemDTO, error)
	FindByCode(ctx context.Context, code string) (*entities.CatalogItem, error)
	NameExists(ctx context.Context, name string, excludeID uint64) (bool, error)
	CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*dto.CatalogItemDTO, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*dto.CatalogItemDTO, error)
	DeactivateItem(ctx context.Context, id uint64) error
}

// CatalogRepository serves one reference table. The same implementation is
// instantiated for roles, categories, article_states and loan_states; only
// the state tables carry a code column.
type CatalogRepository struct {
	storage *pgxpool.Pool
	table   string
	hasCode bool
}

func NewCatalogRepository(storage *pgxpool.Pool, table string, hasCode bool) CatalogRepositoryInterface {
	return &CatalogRepository{storage: storage, table: table, hasCode: hasCode}
}

func (r *CatalogRepository) fields() string {
	if r.hasCode {
		return "id, code, name, active, created_at, updated_at"
	}
	return "id, NULL AS code, name, active, created_at, updated_at"
}

func (r *CatalogRepository) GetItems(ctx context.Context, limit, offset uint64, includeInactive bool) ([]dto.CatalogItemDTO, uint64, error) {
	whereClause := "WHERE active = TRUE"
	if includeInactive {
		whereClause = ""
	}

	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", r.table, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.CatalogItemDTO{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id LIMIT $1 OFFSET $2",
		r.fields(), r.table, whereClause)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]dto.CatalogItemDTO, 0)
	for rows.Next() {
		var dbRow dbCatalogItem
		if err := rows.Scan(&dbRow.ID, &dbRow.Code, &dbRow.Name, &dbRow.Active, &dbRow.CreatedAt, &dbRow.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, dbRow.toDTO())
	}
	return items, total, rows.Err()
}

func (r *CatalogRepository) FindItem(ctx context.Context, id uint64) (*dto.CatalogItemDTO, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.fields(), r.table)
	var dbRow dbCatalogItem
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&dbRow.ID, &dbRow.Code, &dbRow.Name, &dbRow.Active, &dbRow.CreatedAt, &dbRow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	itemDTO := dbRow.toDTO()
	return &itemDTO, nil
}

func (r *CatalogRepository) FindByCode(ctx context.Context, code string) (*entities.CatalogItem, error) {
	if !r.hasCode {
		return nil, apperrors.ErrNotFound
	}
	query := fmt.Sprintf("SELECT id, code, name, active FROM %s WHERE code = $1 LIMIT 1", r.table)
	var item entities.CatalogItem
	err := r.storage.QueryRow(ctx, query, code).Scan(&item.ID, &item.Code, &item.Name, &item.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// NameExists matches case-sensitively among active rows.
func (r *CatalogRepository) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE name = $1 AND active = TRUE AND id <> $2)", r.table)
	var exists bool
	err := r.storage.QueryRow(ctx, query, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *CatalogRepository) CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	var query string
	var row pgx.Row
	if r.hasCode {
		query = fmt.Sprintf("INSERT INTO %s (code, name) VALUES ($1, $2) RETURNING %s", r.table, r.fields())
		row = r.storage.QueryRow(ctx, query, payload.Code, payload.Name)
	} else {
		query = fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING %s", r.table, r.fields())
		row = r.storage.QueryRow(ctx, query, payload.Name)
	}

	var dbRow dbCatalogItem
	if err := row.Scan(&dbRow.ID, &dbRow.Code, &dbRow.Name, &dbRow.Active, &dbRow.CreatedAt, &dbRow.UpdatedAt); err != nil {
		return nil, err
	}
	createdDTO := dbRow.toDTO()
	return &createdDTO, nil
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if payload.Name != nil {
		setClauses = append(setClauses, "name = @name")
		args["name"] = *payload.Name
	}
	if payload.Active != nil {
		setClauses = append(setClauses, "active = @active")
		args["active"] = *payload.Active
	}

	if len(setClauses) == 0 {
		return r.FindItem(ctx, id)
	}

	query := fmt.Sprintf("UPDATE %s SET updated_at = NOW(), %s WHERE id = @id RETURNING %s",
		r.table, strings.Join(setClauses, ", "), r.fields())

	var dbRow dbCatalogItem
	err := r.storage.QueryRow(ctx, query, args).Scan(
		&dbRow.ID, &dbRow.Code, &dbRow.Name, &dbRow.Active, &dbRow.CreatedAt, &dbRow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	updatedDTO := dbRow.toDTO()
	return &updatedDTO, nil
}

// DeactivateItem is the soft delete: the row stays for referential history.
func (r *CatalogRepository) DeactivateItem(ctx context.Context, id uint64) error {
	query := fmt.Sprintf("UPDATE %s SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE", r.table)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
