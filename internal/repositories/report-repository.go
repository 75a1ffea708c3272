package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
)

type ReportRepositoryInterface interface {
	GetLoanReport(ctx context.Context, filter entities.LoanReportFilter) ([]entities.LoanReportItem, uint64, error)
	GetArticleReport(ctx context.Context) ([]entities.ArticleReportItem, error)
}

type reportRepository struct {
	db *pgxpool.Pool
}

func NewReportRepository(db *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetLoanReport(ctx context.Context, filter entities.LoanReportFilter) ([]entities.LoanReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	baseSelect := psql.Select().
		From("loans l").
		Join("users u ON u.id = l.user_id").
		Join("articles a ON a.id = l.article_id").
		Join("loan_states ls ON ls.id = l.loan_state_id").
		LeftJoin("users apr ON apr.id = l.approved_by")

	if filter.DateFrom != nil {
		baseSelect = baseSelect.Where(sq.GtOrEq{"l.requested_at": filter.DateFrom})
	}
	if filter.DateTo != nil {
		baseSelect = baseSelect.Where(sq.LtOrEq{"l.requested_at": filter.DateTo})
	}
	if len(filter.StateCodes) > 0 {
		baseSelect = baseSelect.Where(sq.Eq{"ls.code": filter.StateCodes})
	}
	if len(filter.UserIDs) > 0 {
		baseSelect = baseSelect.Where(sq.Eq{"l.user_id": filter.UserIDs})
	}

	countQuery, countArgs, err := baseSelect.Columns("COUNT(l.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to run count query: %w", err)
	}
	if total == 0 {
		return []entities.LoanReportItem{}, 0, nil
	}

	mainBuilder := baseSelect.Columns(
		"l.id", "(u.first_name || ' ' || u.last_name)", "a.code", "a.name", "ls.name",
		"l.requested_at", "l.delivered_at", "l.returned_at",
		"(apr.first_name || ' ' || apr.last_name)", "l.observations",
	).OrderBy("l.id DESC")

	if filter.PerPage > 0 {
		mainBuilder = mainBuilder.Limit(uint64(filter.PerPage)).Offset(uint64((filter.Page - 1) * filter.PerPage))
	}

	query, args, err := mainBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build report query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to run report query: %w", err)
	}
	defer rows.Close()

	var items []entities.LoanReportItem
	for rows.Next() {
		var item entities.LoanReportItem
		err := rows.Scan(
			&item.LoanID, &item.UserName, &item.ArticleCode, &item.ArticleName, &item.StateName,
			&item.RequestedAt, &item.DeliveredAt, &item.ReturnedAt,
			&item.ApproverName, &item.Observations,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan report row: %w", err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *reportRepository) GetArticleReport(ctx context.Context) ([]entities.ArticleReportItem, error) {
	query := `SELECT a.id, a.code, a.name, c.name, s.name, a.location, a.stock, a.price,
		(SELECT COUNT(*) FROM loans l
			JOIN loan_states ls ON ls.id = l.loan_state_id
			WHERE l.article_id = a.id AND ls.code = ANY($1))
	FROM articles a
	JOIN categories c ON c.id = a.category_id
	JOIN article_states s ON s.id = a.article_state_id
	WHERE a.active = TRUE
	ORDER BY a.code`

	rows, err := r.db.Query(ctx, query, constants.ActiveLoanStates)
	if err != nil {
		return nil, fmt.Errorf("failed to run inventory report query: %w", err)
	}
	defer rows.Close()

	var items []entities.ArticleReportItem
	for rows.Next() {
		var item entities.ArticleReportItem
		err := rows.Scan(
			&item.ArticleID, &item.Code, &item.Name, &item.CategoryName, &item.StateName,
			&item.Location, &item.Stock, &item.Price, &item.ActiveLoans,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory report row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
