package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/constants"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
)

type loanTestEnv struct {
	svc         LoanServiceInterface
	loanRepo    *fakeLoanRepo
	articleRepo *fakeArticleRepo
	audit       *fakeAuditService
}

func newLoanTestEnv() *loanTestEnv {
	loanRepo := newFakeLoanRepo()
	articleRepo := newFakeArticleRepo()
	audit := &fakeAuditService{}
	svc := NewLoanService(loanRepo, articleRepo, &fakeTxManager{}, audit, zap.NewNop())
	return &loanTestEnv{svc: svc, loanRepo: loanRepo, articleRepo: articleRepo, audit: audit}
}

func (e *loanTestEnv) addAvailableArticle() *entities.Article {
	return e.articleRepo.add(entities.Article{
		Code:      "PSG-001-L",
		Name:      "PSG Home Jersey",
		StateCode: constants.ArticleAvailable,
		Stock:     3,
		Active:    true,
	})
}

func approverCtx() context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, uint64(9))
}

func TestCreateLoanLeavesArticleAvailable(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	assert.Equal(t, constants.LoanPending, loan.StateCode)

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleAvailable, stored.StateCode)
}

func TestCreateLoanArticleNotFound(t *testing.T) {
	env := newLoanTestEnv()

	_, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: 99})
	require.Error(t, err)
	assert.Equal(t, "article not found", apperrors.PublicMessage(err))
}

func TestCreateLoanInactiveArticle(t *testing.T) {
	env := newLoanTestEnv()
	article := env.articleRepo.add(entities.Article{
		Code: "OLD-1", Name: "Old", StateCode: constants.ArticleAvailable, Active: false,
	})

	_, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.Error(t, err)
	assert.Equal(t, "article not found", apperrors.PublicMessage(err))
}

func TestCreateLoanArticleNotAvailable(t *testing.T) {
	env := newLoanTestEnv()
	article := env.articleRepo.add(entities.Article{
		Code: "DMG-1", Name: "Damaged", StateCode: constants.ArticleDamaged, Active: true,
	})

	_, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.Error(t, err)
	assert.Equal(t, "article is not available", apperrors.PublicMessage(err))
}

func TestCreateLoanDuplicateActiveLoan(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	_, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.Error(t, err)
	assert.Equal(t, "user already has an active loan of this article", apperrors.PublicMessage(err))
}

func TestApproveLoanWithImmediateDelivery(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	approved, err := env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{
		DeliveredAt: null.TimeFrom(time.Now()),
	})
	require.NoError(t, err)

	assert.Equal(t, constants.LoanDelivered, approved.StateCode)
	assert.True(t, approved.DeliveredAt.Valid)
	assert.Equal(t, uint64(9), approved.ApprovedBy.Uint64)

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleLoaned, stored.StateCode)
}

func TestApproveLoanWithoutDelivery(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	approved, err := env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.NoError(t, err)

	assert.Equal(t, constants.LoanApproved, approved.StateCode)
	assert.False(t, approved.DeliveredAt.Valid)

	// Article stays available until actual delivery.
	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleAvailable, stored.StateCode)
}

func TestApproveLoanRequiresPending(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.NoError(t, err)

	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.Error(t, err)
	assert.Equal(t, "only pending loans can be approved", apperrors.PublicMessage(err))
}

func TestRejectLoanLeavesArticleUntouched(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	rejected, err := env.svc.RejectLoan(approverCtx(), loan.ID, dto.RejectLoanDTO{Observations: "not eligible"})
	require.NoError(t, err)

	assert.Equal(t, constants.LoanRejected, rejected.StateCode)

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleAvailable, stored.StateCode)
}

func TestDeliverLoanFlipsArticle(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.NoError(t, err)

	delivered, err := env.svc.DeliverLoan(approverCtx(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.LoanDelivered, delivered.StateCode)

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleLoaned, stored.StateCode)
}

func TestDeliverLoanRequiresApproved(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.DeliverLoan(approverCtx(), loan.ID)
	require.Error(t, err)
	assert.Equal(t, "only approved loans can be delivered", apperrors.PublicMessage(err))
}

func TestReturnLoanMakesArticleAvailable(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{
		DeliveredAt: null.TimeFrom(time.Now()),
	})
	require.NoError(t, err)

	returned, err := env.svc.ReturnLoan(approverCtx(), loan.ID, dto.ReturnLoanDTO{Observations: "all good"})
	require.NoError(t, err)
	assert.Equal(t, constants.LoanReturned, returned.StateCode)
	assert.True(t, returned.ReturnedAt.Valid)

	stored, err := env.articleRepo.FindArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ArticleAvailable, stored.StateCode)
}

func TestReturnLoanWorksFromAnyState(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	// Straight from pending, no approval or delivery ever happened.
	returned, err := env.svc.ReturnLoan(approverCtx(), loan.ID, dto.ReturnLoanDTO{})
	require.NoError(t, err)
	assert.Equal(t, constants.LoanReturned, returned.StateCode)
}

func TestDeleteLoanOnlyPending(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.NoError(t, err)

	err = env.svc.DeleteLoan(context.Background(), loan.ID)
	require.Error(t, err)
	assert.Equal(t, "only pending loans can be deleted", apperrors.PublicMessage(err))
}

func TestDeleteLoanPendingSucceeds(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(context.Background(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteLoan(context.Background(), loan.ID))

	_, err = env.svc.FindLoan(context.Background(), loan.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoanLifecycleIsAudited(t *testing.T) {
	env := newLoanTestEnv()
	article := env.addAvailableArticle()

	loan, err := env.svc.CreateLoan(approverCtx(), dto.CreateLoanDTO{UserID: 1, ArticleID: article.ID})
	require.NoError(t, err)
	_, err = env.svc.ApproveLoan(approverCtx(), loan.ID, dto.ApproveLoanDTO{})
	require.NoError(t, err)

	require.Len(t, env.audit.actions, 2)
	assert.Equal(t, constants.ActionCreate, env.audit.actions[0].Action)
	assert.Equal(t, constants.ActionApprove, env.audit.actions[1].Action)
	assert.Equal(t, "loans", env.audit.actions[0].TableName)
}
