package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const articleTable = "articles"

const articleFields = `a.id, a.code, a.name, a.team, a.season, a.size, a.color, a.price,
	a.category_id, c.name, a.article_state_id, s.code, s.name,
	a.location, a.stock, a.active, a.created_at, a.updated_at`

const articleJoins = `FROM articles a
	JOIN categories c ON c.id = a.category_id
	JOIN article_states s ON s.id = a.article_state_id`

// Columns the list endpoint may filter or sort by.
var articleFilterColumns = map[string]string{
	"categoria_id": "a.category_id",
	"estado_id":    "a.article_state_id",
	"activo":       "a.active",
	"created_at":   "a.created_at",
	"code":         "a.code",
	"name":         "a.name",
	"stock":        "a.stock",
}

func scanArticle(row pgx.Row) (*entities.Article, error) {
	var a entities.Article
	err := row.Scan(
		&a.ID, &a.Code, &a.Name, &a.Team, &a.Season, &a.Size, &a.Color, &a.Price,
		&a.CategoryID, &a.CategoryName, &a.ArticleStateID, &a.StateCode, &a.StateName,
		&a.Location, &a.Stock, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func ArticleToDTO(a *entities.Article) dto.ArticleDTO {
	price := null.Float64{}
	if a.Price.Valid {
		price = null.Float64From(a.Price.Float64)
	}
	return dto.ArticleDTO{
		ID:           a.ID,
		Code:         a.Code,
		Name:         a.Name,
		Team:         a.Team.String,
		Season:       a.Season.String,
		Size:         a.Size.String,
		Color:        a.Color.String,
		Price:        price,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName.String,
		StateID:      a.ArticleStateID,
		StateCode:    a.StateCode,
		StateName:    a.StateName.String,
		Location:     a.Location.String,
		Stock:        a.Stock,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		UpdatedAt:    a.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
	}
}

type ArticleRepositoryInterface interface {
	GetArticles(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error)
	FindArticle(ctx context.Context, id uint64) (*entities.Article, error)
	CodeExists(ctx context.Context, code string, excludeID uint64) (bool, error)
	CreateArticle(ctx context.Context, payload dto.CreateArticleDTO, stateID uint64) (*entities.Article, error)
	UpdateArticle(ctx context.Context, id uint64, payload dto.UpdateArticleDTO) (*entities.Article, error)
	DeactivateArticle(ctx context.Context, id uint64) error
	CanBeDeleted(ctx context.Context, id uint64) (bool, error)
	GetAvailable(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error)
	GetLowStock(ctx context.Context, minStock int) ([]dto.ArticleDTO, error)
	GetTotalStock(ctx context.Context) (int, error)
	GetAvailableStock(ctx context.Context) (int, error)
	UpdateStateInTx(ctx context.Context, tx pgx.Tx, articleID uint64, stateCode string) error
}

type ArticleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewArticleRepository(storage *pgxpool.Pool, logger *zap.Logger) ArticleRepositoryInterface {
	return &ArticleRepository{storage: storage, logger: logger}
}

func (r *ArticleRepository) baseSelect() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select().
		From("articles a").
		Join("categories c ON c.id = a.category_id").
		Join("article_states s ON s.id = a.article_state_id")
}

func (r *ArticleRepository) listWith(ctx context.Context, base sq.SelectBuilder, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"a.code": like},
			sq.ILike{"a.name": like},
			sq.ILike{"a.team": like},
		})
	}
	for key, val := range filter.Filter {
		col, ok := articleFilterColumns[key]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			base = base.Where(sq.Eq{col: strings.Split(s, ",")})
		} else {
			base = base.Where(sq.Eq{col: val})
		}
	}

	countQuery, countArgs, err := base.Columns("COUNT(a.id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.ArticleDTO{}, 0, nil
	}

	main := base.Columns(
		"a.id", "a.code", "a.name", "a.team", "a.season", "a.size", "a.color", "a.price",
		"a.category_id", "c.name", "a.article_state_id", "s.code", "s.name",
		"a.location", "a.stock", "a.active", "a.created_at", "a.updated_at",
	)
	orderBy := "a.id"
	for key, dir := range filter.Sort {
		col, ok := articleFilterColumns[key]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(dir) == "desc" {
			sqlDir = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s", col, sqlDir)
	}
	main = main.OrderBy(orderBy)
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

	articles := make([]dto.ArticleDTO, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, ArticleToDTO(a))
	}
	return articles, total, rows.Err()
}

// GetArticles excludes soft-deleted rows unless the caller filters on
// `activo` explicitly.
func (r *ArticleRepository) GetArticles(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	base := r.baseSelect()
	if _, ok := filter.Filter["activo"]; !ok {
		base = base.Where(sq.Eq{"a.active": true})
	}
	return r.listWith(ctx, base, filter)
}

func (r *ArticleRepository) GetAvailable(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	base := r.baseSelect().
		Where(sq.Eq{"a.active": true}).
		Where(sq.Eq{"s.code": constants.ArticleAvailable}).
		Where(sq.Gt{"a.stock": 0})
	return r.listWith(ctx, base, filter)
}

func (r *ArticleRepository) FindArticle(ctx context.Context, id uint64) (*entities.Article, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.id = $1", articleFields, articleJoins)
	a, err := scanArticle(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// CodeExists scans every row, soft-deleted ones included: a reactivated
// article must not collide with a code that was reused meanwhile.
func (r *ArticleRepository) CodeExists(ctx context.Context, code string, excludeID uint64) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM articles WHERE code = $1 AND id <> $2)"
	var exists bool
	err := r.storage.QueryRow(ctx, query, code, excludeID).Scan(&exists)
	return exists, err
}

func (r *ArticleRepository) CreateArticle(ctx context.Context, payload dto.CreateArticleDTO, stateID uint64) (*entities.Article, error) {
	query := `INSERT INTO articles
		(code, name, team, season, size, color, price, category_id, article_state_id, location, stock)
		VALUES (@code, @name, @team, @season, @size, @color, @price, @category_id, @state_id, @location, @stock)
		RETURNING id`
	args := pgx.NamedArgs{
		"code":        payload.Code,
		"name":        payload.Name,
		"team":        nullIfEmpty(payload.Team),
		"season":      nullIfEmpty(payload.Season),
		"size":        nullIfEmpty(payload.Size),
		"color":       nullIfEmpty(payload.Color),
		"price":       payload.Price.Ptr(),
		"category_id": payload.CategoryID,
		"state_id":    stateID,
		"location":    nullIfEmpty(payload.Location),
		"stock":       payload.Stock,
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&id); err != nil {
		return nil, err
	}
	return r.FindArticle(ctx, id)
}

func (r *ArticleRepository) UpdateArticle(ctx context.Context, id uint64, payload dto.UpdateArticleDTO) (*entities.Article, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if payload.Code != nil {
		setClauses = append(setClauses, "code = @code")
		args["code"] = *payload.Code
	}
	if payload.Name != nil {
		setClauses = append(setClauses, "name = @name")
		args["name"] = *payload.Name
	}
	if payload.Team != nil {
		setClauses = append(setClauses, "team = @team")
		args["team"] = *payload.Team
	}
	if payload.Season != nil {
		setClauses = append(setClauses, "season = @season")
		args["season"] = *payload.Season
	}
	if payload.Size != nil {
		setClauses = append(setClauses, "size = @size")
		args["size"] = *payload.Size
	}
	if payload.Color != nil {
		setClauses = append(setClauses, "color = @color")
		args["color"] = *payload.Color
	}
	if payload.Price.Valid {
		setClauses = append(setClauses, "price = @price")
		args["price"] = payload.Price.Float64
	}
	if payload.Category != nil {
		setClauses = append(setClauses, "category_id = @category_id")
		args["category_id"] = *payload.Category
	}
	if payload.StateID != nil {
		setClauses = append(setClauses, "article_state_id = @state_id")
		args["state_id"] = *payload.StateID
	}
	if payload.Location != nil {
		setClauses = append(setClauses, "location = @location")
		args["location"] = *payload.Location
	}
	if payload.Stock != nil {
		setClauses = append(setClauses, "stock = @stock")
		args["stock"] = *payload.Stock
	}

	if len(setClauses) == 0 {
		return r.FindArticle(ctx, id)
	}

	query := fmt.Sprintf("UPDATE articles SET updated_at = NOW(), %s WHERE id = @id RETURNING id",
		strings.Join(setClauses, ", "))

	var updatedID uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.FindArticle(ctx, updatedID)
}

func (r *ArticleRepository) DeactivateArticle(ctx context.Context, id uint64) error {
	query := "UPDATE articles SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE"
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CanBeDeleted answers whether any loan on the article is still in a
// non-terminal state. The service does not re-derive this.
func (r *ArticleRepository) CanBeDeleted(ctx context.Context, id uint64) (bool, error) {
	query := `SELECT NOT EXISTS (
		SELECT 1 FROM loans l
		JOIN loan_states ls ON ls.id = l.loan_state_id
		WHERE l.article_id = $1 AND ls.code = ANY($2)
	)`
	var deletable bool
	err := r.storage.QueryRow(ctx, query, id, constants.ActiveLoanStates).Scan(&deletable)
	return deletable, err
}

// GetLowStock uses an inclusive threshold: stock <= minStock.
func (r *ArticleRepository) GetLowStock(ctx context.Context, minStock int) ([]dto.ArticleDTO, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE a.active = TRUE AND a.stock <= $1 ORDER BY a.stock, a.id",
		articleFields, articleJoins)
	rows, err := r.storage.Query(ctx, query, minStock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]dto.ArticleDTO, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, ArticleToDTO(a))
	}
	return articles, rows.Err()
}

func (r *ArticleRepository) GetTotalStock(ctx context.Context) (int, error) {
	var total int
	err := r.storage.QueryRow(ctx,
		"SELECT COALESCE(SUM(stock), 0) FROM articles WHERE active = TRUE").Scan(&total)
	return total, err
}

func (r *ArticleRepository) GetAvailableStock(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(SUM(a.stock), 0)
		FROM articles a
		JOIN article_states s ON s.id = a.article_state_id
		WHERE a.active = TRUE AND s.code = $1`
	var total int
	err := r.storage.QueryRow(ctx, query, constants.ArticleAvailable).Scan(&total)
	return total, err
}

// UpdateStateInTx flips the article state inside a lifecycle transaction.
func (r *ArticleRepository) UpdateStateInTx(ctx context.Context, tx pgx.Tx, articleID uint64, stateCode string) error {
	query := `UPDATE articles
		SET article_state_id = (SELECT id FROM article_states WHERE code = $2),
		    updated_at = NOW()
		WHERE id = $1`
	result, err := tx.Exec(ctx, query, articleID, stateCode)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
