package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

const articlesTableName = "articles"

type ArticleServiceInterface interface {
	GetArticles(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error)
	GetAvailable(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error)
	GetLowStock(ctx context.Context, minStock int) ([]dto.ArticleDTO, error)
	GetStockSummary(ctx context.Context) (*dto.StockSummaryDTO, error)
	FindArticle(ctx context.Context, id uint64) (*dto.ArticleDTO, error)
	CreateArticle(ctx context.Context, payload dto.CreateArticleDTO) (*dto.ArticleDTO, error)
	UpdateArticle(ctx context.Context, id uint64, payload dto.UpdateArticleDTO) (*dto.ArticleDTO, error)
	DeleteArticle(ctx context.Context, id uint64) error
}

type ArticleService struct {
	articleRepo repositories.ArticleRepositoryInterface
	stateRepo   repositories.CatalogRepositoryInterface
	auditSvc    AuditServiceInterface
	logger      *zap.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepositoryInterface,
	stateRepo repositories.CatalogRepositoryInterface,
	auditSvc AuditServiceInterface,
	logger *zap.Logger,
) ArticleServiceInterface {
	return &ArticleService{
		articleRepo: articleRepo,
		stateRepo:   stateRepo,
		auditSvc:    auditSvc,
		logger:      logger,
	}
}

func (s *ArticleService) GetArticles(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	return s.articleRepo.GetArticles(ctx, filter)
}

func (s *ArticleService) GetAvailable(ctx context.Context, filter types.Filter) ([]dto.ArticleDTO, uint64, error) {
	return s.articleRepo.GetAvailable(ctx, filter)
}

func (s *ArticleService) GetLowStock(ctx context.Context, minStock int) ([]dto.ArticleDTO, error) {
	if minStock < 0 {
		return nil, apperrors.NewInvalidInputError("minimum stock must not be negative")
	}
	return s.articleRepo.GetLowStock(ctx, minStock)
}

func (s *ArticleService) GetStockSummary(ctx context.Context) (*dto.StockSummaryDTO, error) {
	total, err := s.articleRepo.GetTotalStock(ctx)
	if err != nil {
		return nil, err
	}
	available, err := s.articleRepo.GetAvailableStock(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StockSummaryDTO{TotalStock: total, AvailableStock: available}, nil
}

func (s *ArticleService) FindArticle(ctx context.Context, id uint64) (*dto.ArticleDTO, error) {
	article, err := s.articleRepo.FindArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	articleDTO := articleEntityToDTO(article)
	return &articleDTO, nil
}

func (s *ArticleService) CreateArticle(ctx context.Context, payload dto.CreateArticleDTO) (*dto.ArticleDTO, error) {
	exists, err := s.articleRepo.CodeExists(ctx, payload.Code, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewInvalidInputError("article code already exists")
	}

	// New articles start in the Available state.
	state, err := s.stateRepo.FindByCode(ctx, constants.ArticleAvailable)
	if err != nil {
		s.logger.Error("default article state missing", zap.Error(err))
		return nil, err
	}

	created, err := s.articleRepo.CreateArticle(ctx, payload, state.ID)
	if err != nil {
		s.logger.Error("failed to create article", zap.String("code", payload.Code), zap.Error(err))
		return nil, err
	}

	createdDTO := articleEntityToDTO(created)
	s.auditSvc.LogAction(ctx, constants.ActionCreate, articlesTableName, &created.ID, nil, createdDTO)
	return &createdDTO, nil
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id uint64, payload dto.UpdateArticleDTO) (*dto.ArticleDTO, error) {
	before, err := s.articleRepo.FindArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Code != nil {
		exists, err := s.articleRepo.CodeExists(ctx, *payload.Code, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewInvalidInputError("article code already exists")
		}
	}

	updated, err := s.articleRepo.UpdateArticle(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	beforeDTO := articleEntityToDTO(before)
	updatedDTO := articleEntityToDTO(updated)
	s.auditSvc.LogAction(ctx, constants.ActionUpdate, articlesTableName, &id, beforeDTO, updatedDTO)
	return &updatedDTO, nil
}

// DeleteArticle soft-deletes, and only when no loan on the article is in a
// non-terminal state.
func (s *ArticleService) DeleteArticle(ctx context.Context, id uint64) error {
	before, err := s.articleRepo.FindArticle(ctx, id)
	if err != nil {
		return err
	}

	deletable, err := s.articleRepo.CanBeDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !deletable {
		return apperrors.NewInvalidInputError("cannot delete article: has active loans")
	}

	if err := s.articleRepo.DeactivateArticle(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAction(ctx, constants.ActionDelete, articlesTableName, &id, articleEntityToDTO(before), nil)
	return nil
}

func articleEntityToDTO(a *entities.Article) dto.ArticleDTO {
	return repositories.ArticleToDTO(a)
}
