package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const loanFields = `l.id, l.user_id, (u.first_name || ' ' || u.last_name),
	l.article_id, a.code, a.name, l.loan_state_id, ls.code, ls.name,
	l.requested_at, l.estimated_delivery_at, l.estimated_return_at,
	l.delivered_at, l.returned_at, l.approved_by, l.approved_at,
	l.observations, l.created_at, l.updated_at`

const loanJoins = `FROM loans l
	JOIN users u ON u.id = l.user_id
	JOIN articles a ON a.id = l.article_id
	JOIN loan_states ls ON ls.id = l.loan_state_id`

var loanFilterColumns = map[string]string{
	"usuario_id":  "l.user_id",
	"articulo_id": "l.article_id",
	"estado":      "ls.code",
	"created_at":  "l.created_at",
}

func scanLoan(row pgx.Row) (*entities.Loan, error) {
	var l entities.Loan
	err := row.Scan(
		&l.ID, &l.UserID, &l.UserName, &l.ArticleID, &l.ArticleCode, &l.ArticleName,
		&l.LoanStateID, &l.StateCode, &l.StateName,
		&l.RequestedAt, &l.EstimatedDeliveryAt, &l.EstimatedReturnAt,
		&l.DeliveredAt, &l.ReturnedAt, &l.ApprovedBy, &l.ApprovedAt,
		&l.Observations, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func LoanToDTO(l *entities.Loan) dto.LoanDTO {
	const layout = "2006-01-02 15:04:05"
	nullTimeStr := func(valid bool, t time.Time) null.String {
		if !valid {
			return null.String{}
		}
		return null.StringFrom(t.Local().Format(layout))
	}

	approvedBy := null.Uint64{}
	if l.ApprovedBy.Valid {
		approvedBy = null.Uint64From(uint64(l.ApprovedBy.Int64))
	}

	return dto.LoanDTO{
		ID:                  l.ID,
		UserID:              l.UserID,
		UserName:            l.UserName.String,
		ArticleID:           l.ArticleID,
		ArticleCode:         l.ArticleCode.String,
		ArticleName:         l.ArticleName.String,
		StateID:             l.LoanStateID,
		StateCode:           l.StateCode,
		StateName:           l.StateName.String,
		RequestedAt:         l.RequestedAt.Local().Format(layout),
		EstimatedDeliveryAt: nullTimeStr(l.EstimatedDeliveryAt.Valid, l.EstimatedDeliveryAt.Time),
		EstimatedReturnAt:   nullTimeStr(l.EstimatedReturnAt.Valid, l.EstimatedReturnAt.Time),
		DeliveredAt:         nullTimeStr(l.DeliveredAt.Valid, l.DeliveredAt.Time),
		ReturnedAt:          nullTimeStr(l.ReturnedAt.Valid, l.ReturnedAt.Time),
		ApprovedBy:          approvedBy,
		ApprovedAt:          nullTimeStr(l.ApprovedAt.Valid, l.ApprovedAt.Time),
		Observations:        l.Observations.String,
		CreatedAt:           l.CreatedAt.Local().Format(layout),
		UpdatedAt:           l.UpdatedAt.Local().Format(layout),
	}
}

type LoanRepositoryInterface interface {
	GetLoans(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error)
	GetOverdue(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error)
	FindLoan(ctx context.Context, id uint64) (*entities.Loan, error)
	HasActiveLoan(ctx context.Context, userID, articleID uint64) (bool, error)
	CreateLoan(ctx context.Context, payload dto.CreateLoanDTO) (*entities.Loan, error)
	UpdateLoan(ctx context.Context, id uint64, payload dto.UpdateLoanDTO) (*entities.Loan, error)
	DeleteLoan(ctx context.Context, id uint64) error
	SetStateInTx(ctx context.Context, tx pgx.Tx, loanID uint64, stateCode string, set map[string]interface{}) error
}

type LoanRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLoanRepository(storage *pgxpool.Pool, logger *zap.Logger) LoanRepositoryInterface {
	return &LoanRepository{storage: storage, logger: logger}
}

func (r *LoanRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("loans l").
		Join("users u ON u.id = l.user_id").
		Join("articles a ON a.id = l.article_id").
		Join("loan_states ls ON ls.id = l.loan_state_id")
}

func (r *LoanRepository) listWith(ctx context.Context, base sq.SelectBuilder, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"a.code": like},
			sq.ILike{"a.name": like},
			sq.ILike{"u.last_name": like},
		})
	}
	for key, val := range filter.Filter {
		col, ok := loanFilterColumns[key]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			base = base.Where(sq.Eq{col: strings.Split(s, ",")})
		} else {
			base = base.Where(sq.Eq{col: val})
		}
	}

	countQuery, countArgs, err := base.Columns("COUNT(l.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.LoanDTO{}, 0, nil
	}

	main := base.Columns(
		"l.id", "l.user_id", "(u.first_name || ' ' || u.last_name)",
		"l.article_id", "a.code", "a.name", "l.loan_state_id", "ls.code", "ls.name",
		"l.requested_at", "l.estimated_delivery_at", "l.estimated_return_at",
		"l.delivered_at", "l.returned_at", "l.approved_by", "l.approved_at",
		"l.observations", "l.created_at", "l.updated_at",
	).OrderBy("l.id DESC")
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

	loans := make([]dto.LoanDTO, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, LoanToDTO(l))
	}
	return loans, total, rows.Err()
}

func (r *LoanRepository) GetLoans(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	return r.listWith(ctx, r.baseSelect(), filter)
}

// GetOverdue lists delivered loans whose estimated return is in the past.
func (r *LoanRepository) GetOverdue(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	base := r.baseSelect().
		Where(sq.Eq{"ls.code": constants.LoanDelivered}).
		Where(sq.Lt{"l.estimated_return_at": time.Now()})
	return r.listWith(ctx, base, filter)
}

func (r *LoanRepository) FindLoan(ctx context.Context, id uint64) (*entities.Loan, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.id = $1", loanFields, loanJoins)
	l, err := scanLoan(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LoanRepository) HasActiveLoan(ctx context.Context, userID, articleID uint64) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM loans l
		JOIN loan_states ls ON ls.id = l.loan_state_id
		WHERE l.user_id = $1 AND l.article_id = $2 AND ls.code = ANY($3)
	)`
	var exists bool
	err := r.storage.QueryRow(ctx, query, userID, articleID, constants.ActiveLoanStates).Scan(&exists)
	return exists, err
}

func (r *LoanRepository) CreateLoan(ctx context.Context, payload dto.CreateLoanDTO) (*entities.Loan, error) {
	query := `INSERT INTO loans
		(user_id, article_id, loan_state_id, estimated_delivery_at, estimated_return_at, observations)
		VALUES (@user_id, @article_id, (SELECT id FROM loan_states WHERE code = @state_code), @est_delivery, @est_return, @observations)
		RETURNING id`
	args := pgx.NamedArgs{
		"user_id":      payload.UserID,
		"article_id":   payload.ArticleID,
		"state_code":   constants.LoanPending,
		"est_delivery": payload.EstimatedDeliveryAt.Ptr(),
		"est_return":   payload.EstimatedReturnAt.Ptr(),
		"observations": nullIfEmpty(payload.Observations),
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&id); err != nil {
		return nil, err
	}
	return r.FindLoan(ctx, id)
}

func (r *LoanRepository) UpdateLoan(ctx context.Context, id uint64, payload dto.UpdateLoanDTO) (*entities.Loan, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if payload.EstimatedDeliveryAt.Valid {
		setClauses = append(setClauses, "estimated_delivery_at = @est_delivery")
		args["est_delivery"] = payload.EstimatedDeliveryAt.Time
	}
	if payload.EstimatedReturnAt.Valid {
		setClauses = append(setClauses, "estimated_return_at = @est_return")
		args["est_return"] = payload.EstimatedReturnAt.Time
	}
	if payload.Observations != nil {
		setClauses = append(setClauses, "observations = @observations")
		args["observations"] = *payload.Observations
	}

	if len(setClauses) == 0 {
		return r.FindLoan(ctx, id)
	}

	query := fmt.Sprintf("UPDATE loans SET updated_at = NOW(), %s WHERE id = @id RETURNING id",
		strings.Join(setClauses, ", "))

	var updatedID uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.FindLoan(ctx, updatedID)
}

// DeleteLoan is a hard delete; the service guards that only pending loans
// reach this point.
func (r *LoanRepository) DeleteLoan(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM loans WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetStateInTx moves the loan into stateCode and applies the extra column
// assignments of the transition (timestamps, approver, notes).
func (r *LoanRepository) SetStateInTx(ctx context.Context, tx pgx.Tx, loanID uint64, stateCode string, set map[string]interface{}) error {
	setClauses := []string{
		"loan_state_id = (SELECT id FROM loan_states WHERE code = @state_code)",
		"updated_at = NOW()",
	}
	args := pgx.NamedArgs{"id": loanID, "state_code": stateCode}
	for col, val := range set {
		setClauses = append(setClauses, fmt.Sprintf("%s = @%s", col, col))
		args[col] = val
	}

	query := fmt.Sprintf("UPDATE loans SET %s WHERE id = @id", strings.Join(setClauses, ", "))
	result, err := tx.Exec(ctx, query, args)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
