package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
)

type articleTestEnv struct {
	svc         ArticleServiceInterface
	articleRepo *fakeArticleRepo
	audit       *fakeAuditService
}

func newArticleTestEnv() *articleTestEnv {
	articleRepo := newFakeArticleRepo()
	stateRepo := newFakeCatalogRepo(map[string]uint64{
		constants.ArticleAvailable: 1,
		constants.ArticleLoaned:    2,
	})
	audit := &fakeAuditService{}
	svc := NewArticleService(articleRepo, stateRepo, audit, zap.NewNop())
	return &articleTestEnv{svc: svc, articleRepo: articleRepo, audit: audit}
}

func TestCreateArticleDefaultsToAvailable(t *testing.T) {
	env := newArticleTestEnv()

	article, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1, Stock: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ArticleAvailable, article.StateCode)
	assert.True(t, article.Active)
	assert.Equal(t, 3, article.Stock)
}

func TestCreateArticleDuplicateCode(t *testing.T) {
	env := newArticleTestEnv()

	_, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1,
	})
	require.NoError(t, err)

	_, err = env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "Another", CategoryID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, "article code already exists", apperrors.PublicMessage(err))
}

func TestCreateArticleCodeCollidesWithInactive(t *testing.T) {
	env := newArticleTestEnv()
	env.articleRepo.add(entities.Article{
		Code: "PSG-001-L", Name: "Retired", StateCode: constants.ArticleAvailable, Active: false,
	})

	// Inactive rows still count for uniqueness.
	_, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "New", CategoryID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, "article code already exists", apperrors.PublicMessage(err))
}

func TestUpdateArticleKeepsOwnCode(t *testing.T) {
	env := newArticleTestEnv()

	article, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1,
	})
	require.NoError(t, err)

	sameCode := "PSG-001-L"
	newName := "PSG Home Jersey 24/25"
	updated, err := env.svc.UpdateArticle(context.Background(), article.ID, dto.UpdateArticleDTO{
		Code: &sameCode, Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
}

func TestDeleteArticleBlockedByActiveLoans(t *testing.T) {
	env := newArticleTestEnv()

	article, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1,
	})
	require.NoError(t, err)

	env.articleRepo.deletable = map[uint64]bool{article.ID: false}

	err = env.svc.DeleteArticle(context.Background(), article.ID)
	require.Error(t, err)
	assert.Equal(t, "cannot delete article: has active loans", apperrors.PublicMessage(err))
}

func TestDeleteArticleSoftDeletes(t *testing.T) {
	env := newArticleTestEnv()

	article, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteArticle(context.Background(), article.ID))

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestGetLowStockInclusiveThreshold(t *testing.T) {
	env := newArticleTestEnv()
	env.articleRepo.add(entities.Article{Code: "A", Name: "A", StateCode: constants.ArticleAvailable, Stock: 5, Active: true})
	env.articleRepo.add(entities.Article{Code: "B", Name: "B", StateCode: constants.ArticleAvailable, Stock: 6, Active: true})

	low, err := env.svc.GetLowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].Code)
}

func TestGetLowStockRejectsNegative(t *testing.T) {
	env := newArticleTestEnv()

	_, err := env.svc.GetLowStock(context.Background(), -1)
	assert.Error(t, err)
}

func TestGetStockSummary(t *testing.T) {
	env := newArticleTestEnv()
	env.articleRepo.add(entities.Article{Code: "A", Name: "A", StateCode: constants.ArticleAvailable, Stock: 5, Active: true})
	env.articleRepo.add(entities.Article{Code: "B", Name: "B", StateCode: constants.ArticleLoaned, Stock: 2, Active: true})

	summary, err := env.svc.GetStockSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalStock)
	assert.Equal(t, 5, summary.AvailableStock)
}

func TestArticleMutationsAreAudited(t *testing.T) {
	env := newArticleTestEnv()

	article, err := env.svc.CreateArticle(context.Background(), dto.CreateArticleDTO{
		Code: "PSG-001-L", Name: "PSG Home Jersey", CategoryID: 1,
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteArticle(context.Background(), article.ID))

	require.Len(t, env.audit.actions, 2)
	assert.Equal(t, constants.ActionCreate, env.audit.actions[0].Action)
	assert.Equal(t, constants.ActionDelete, env.audit.actions[1].Action)
	assert.Equal(t, "articles", env.audit.actions[0].TableName)
}
