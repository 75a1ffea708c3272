package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

// In-memory repository doubles for service tests. They reproduce only the
// behavior the services depend on.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type auditedAction struct {
	Action    string
	TableName string
	RecordID  *uint64
}

type fakeAuditService struct {
	actions []auditedAction
}

func (f *fakeAuditService) LogAction(ctx context.Context, action, tableName string, recordID *uint64, oldValue, newValue interface{}) {
	f.actions = append(f.actions, auditedAction{Action: action, TableName: tableName, RecordID: recordID})
}

func (f *fakeAuditService) FindByID(ctx context.Context, id uint64) (*dto.AuditLogDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeAuditService) GetLogs(ctx context.Context, filter types.Filter, dateFrom, dateTo *time.Time) ([]dto.AuditLogDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeAuditService) Count(ctx context.Context) (uint64, error) { return 0, nil }

func (f *fakeAuditService) Cleanup(ctx context.Context, days int) (*dto.CleanupResultDTO, error) {
	return &dto.CleanupResultDTO{}, nil
}

type fakeArticleRepo struct {
	articles map[uint64]*entities.Article
	nextID   uint64

	// deletable overrides CanBeDeleted; a nil map means every article
	// is deletable.
	deletable map[uint64]bool
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uint64]*entities.Article), nextID: 1}
}

func (f *fakeArticleRepo) add(a entities.Article) *entities.Article {
	if a.ID == 0 {
		a.ID = f.nextID
	}
	if a.ID >= f.nextID {
		f.nextID = a.ID + 1
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	copied := a
	f.articles[a.ID] = &copied
	return &copied
}

func (f *fakeArticleRepo) GetArticles(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	out := make([]dto.ArticleDTO, 0)
	for _, a := range f.articles {
		if a.Active {
			out = append(out, articleEntityToDTO(a))
		}
	}
	return out, uint64(len(out)), nil
}

func (f *fakeArticleRepo) FindArticle(ctx context.Context, id uint64) (*entities.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeArticleRepo) CodeExists(ctx context.Context, code string, excludeID uint64) (bool, error) {
	for _, a := range f.articles {
		if a.Code == code && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeArticleRepo) CreateArticle(ctx context.Context, payload dto.CreateArticleDTO, stateID uint64) (*entities.Article, error) {
	return f.add(entities.Article{
		Code:           payload.Code,
		Name:           payload.Name,
		CategoryID:     payload.CategoryID,
		ArticleStateID: stateID,
		StateCode:      constants.ArticleAvailable,
		Stock:          payload.Stock,
		Active:         true,
	}), nil
}

func (f *fakeArticleRepo) UpdateArticle(ctx context.Context, id uint64, payload dto.UpdateArticleDTO) (*entities.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.Code != nil {
		a.Code = *payload.Code
	}
	if payload.Name != nil {
		a.Name = *payload.Name
	}
	if payload.Stock != nil {
		a.Stock = *payload.Stock
	}
	copied := *a
	return &copied, nil
}

func (f *fakeArticleRepo) DeactivateArticle(ctx context.Context, id uint64) error {
	a, ok := f.articles[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Active = false
	return nil
}

func (f *fakeArticleRepo) CanBeDeleted(ctx context.Context, id uint64) (bool, error) {
	return f.deletable == nil || f.deletable[id], nil
}

func (f *fakeArticleRepo) GetAvailable(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	out := make([]dto.ArticleDTO, 0)
	for _, a := range f.articles {
		if a.Active && a.StateCode == constants.ArticleAvailable && a.Stock > 0 {
			out = append(out, articleEntityToDTO(a))
		}
	}
	return out, uint64(len(out)), nil
}

func (f *fakeArticleRepo) GetLowStock(ctx context.Context, minStock int) ([]dto.ArticleDTO, error) {
	out := make([]dto.ArticleDTO, 0)
	for _, a := range f.articles {
		if a.Active && a.Stock <= minStock {
			out = append(out, articleEntityToDTO(a))
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) GetTotalStock(ctx context.Context) (int, error) {
	total := 0
	for _, a := range f.articles {
		if a.Active {
			total += a.Stock
		}
	}
	return total, nil
}

func (f *fakeArticleRepo) GetAvailableStock(ctx context.Context) (int, error) {
	total := 0
	for _, a := range f.articles {
		if a.Active && a.StateCode == constants.ArticleAvailable {
			total += a.Stock
		}
	}
	return total, nil
}

func (f *fakeArticleRepo) UpdateStateInTx(ctx context.Context, tx pgx.Tx, articleID uint64, stateCode string) error {
	a, ok := f.articles[articleID]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.StateCode = stateCode
	return nil
}

type fakeLoanRepo struct {
	loans  map[uint64]*entities.Loan
	nextID uint64
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: make(map[uint64]*entities.Loan), nextID: 1}
}

func (f *fakeLoanRepo) GetLoans(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	out := make([]dto.LoanDTO, 0)
	for _, l := range f.loans {
		out = append(out, loanEntityToDTO(l))
	}
	return out, uint64(len(out)), nil
}

func (f *fakeLoanRepo) GetOverdue(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	out := make([]dto.LoanDTO, 0)
	for _, l := range f.loans {
		if l.StateCode == constants.LoanDelivered &&
			l.EstimatedReturnAt.Valid && l.EstimatedReturnAt.Time.Before(time.Now()) {
			out = append(out, loanEntityToDTO(l))
		}
	}
	return out, uint64(len(out)), nil
}

func (f *fakeLoanRepo) FindLoan(ctx context.Context, id uint64) (*entities.Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLoanRepo) HasActiveLoan(ctx context.Context, userID, articleID uint64) (bool, error) {
	for _, l := range f.loans {
		if l.UserID == userID && l.ArticleID == articleID && constants.IsActiveLoanState(l.StateCode) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLoanRepo) CreateLoan(ctx context.Context, payload dto.CreateLoanDTO) (*entities.Loan, error) {
	l := &entities.Loan{
		ID:          f.nextID,
		UserID:      payload.UserID,
		ArticleID:   payload.ArticleID,
		StateCode:   constants.LoanPending,
		RequestedAt: time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if payload.EstimatedDeliveryAt.Valid {
		l.EstimatedDeliveryAt = sql.NullTime{Time: payload.EstimatedDeliveryAt.Time, Valid: true}
	}
	if payload.EstimatedReturnAt.Valid {
		l.EstimatedReturnAt = sql.NullTime{Time: payload.EstimatedReturnAt.Time, Valid: true}
	}
	if payload.Observations != "" {
		l.Observations = sql.NullString{String: payload.Observations, Valid: true}
	}
	f.nextID++
	f.loans[l.ID] = l
	copied := *l
	return &copied, nil
}

func (f *fakeLoanRepo) UpdateLoan(ctx context.Context, id uint64, payload dto.UpdateLoanDTO) (*entities.Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.EstimatedDeliveryAt.Valid {
		l.EstimatedDeliveryAt = sql.NullTime{Time: payload.EstimatedDeliveryAt.Time, Valid: true}
	}
	if payload.EstimatedReturnAt.Valid {
		l.EstimatedReturnAt = sql.NullTime{Time: payload.EstimatedReturnAt.Time, Valid: true}
	}
	if payload.Observations != nil {
		l.Observations = sql.NullString{String: *payload.Observations, Valid: true}
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLoanRepo) DeleteLoan(ctx context.Context, id uint64) error {
	if _, ok := f.loans[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(f.loans, id)
	return nil
}

func (f *fakeLoanRepo) SetStateInTx(ctx context.Context, tx pgx.Tx, loanID uint64, stateCode string, set map[string]interface{}) error {
	l, ok := f.loans[loanID]
	if !ok {
		return apperrors.ErrNotFound
	}
	l.StateCode = stateCode
	for col, val := range set {
		switch col {
		case "delivered_at":
			l.DeliveredAt = sql.NullTime{Time: val.(time.Time), Valid: true}
		case "returned_at":
			l.ReturnedAt = sql.NullTime{Time: val.(time.Time), Valid: true}
		case "approved_at":
			l.ApprovedAt = sql.NullTime{Time: val.(time.Time), Valid: true}
		case "approved_by":
			if id, ok := val.(*uint64); ok && id != nil {
				l.ApprovedBy = sql.NullInt64{Int64: int64(*id), Valid: true}
			}
		case "observations":
			l.Observations = sql.NullString{String: fmt.Sprintf("%v", val), Valid: true}
		}
	}
	l.UpdatedAt = time.Now()
	return nil
}

type fakeCatalogRepo struct {
	byCode map[string]*entities.CatalogItem
}

func newFakeCatalogRepo(codes map[string]uint64) *fakeCatalogRepo {
	byCode := make(map[string]*entities.CatalogItem, len(codes))
	for code, id := range codes {
		byCode[code] = &entities.CatalogItem{ID: id, Code: code, Name: code, Active: true}
	}
	return &fakeCatalogRepo{byCode: byCode}
}

func (f *fakeCatalogRepo) GetItems(ctx context.Context, limit, offset uint64, includeInactive bool) ([]dto.CatalogItemDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeCatalogRepo) FindItem(ctx context.Context, id uint64) (*dto.CatalogItemDTO, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeCatalogRepo) FindByCode(ctx context.Context, code string) (*entities.CatalogItem, error) {
	item, ok := f.byCode[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return item, nil
}

func (f *fakeCatalogRepo) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	return false, nil
}

func (f *fakeCatalogRepo) CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) DeactivateItem(ctx context.Context, id uint64) error { return nil }

func loanEntityToDTO(l *entities.Loan) dto.LoanDTO {
	return dto.LoanDTO{ID: l.ID, UserID: l.UserID, ArticleID: l.ArticleID, StateCode: l.StateCode}
}
