package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

const loansTableName = "loans"

type LoanServiceInterface interface {
	GetLoans(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error)
	GetOverdue(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error)
	FindLoan(ctx context.Context, id uint64) (*dto.LoanDTO, error)
	CreateLoan(ctx context.Context, payload dto.CreateLoanDTO) (*dto.LoanDTO, error)
	UpdateLoan(ctx context.Context, id uint64, payload dto.UpdateLoanDTO) (*dto.LoanDTO, error)
	DeleteLoan(ctx context.Context, id uint64) error
	ApproveLoan(ctx context.Context, id uint64, payload dto.ApproveLoanDTO) (*dto.LoanDTO, error)
	RejectLoan(ctx context.Context, id uint64, payload dto.RejectLoanDTO) (*dto.LoanDTO, error)
	DeliverLoan(ctx context.Context, id uint64) (*dto.LoanDTO, error)
	ReturnLoan(ctx context.Context, id uint64, payload dto.ReturnLoanDTO) (*dto.LoanDTO, error)
}

type LoanService struct {
	loanRepo    repositories.LoanRepositoryInterface
	articleRepo repositories.ArticleRepositoryInterface
	txManager   repositories.TxManagerInterface
	auditSvc    AuditServiceInterface
	logger      *zap.Logger
}

func NewLoanService(
	loanRepo repositories.LoanRepositoryInterface,
	articleRepo repositories.ArticleRepositoryInterface,
	txManager repositories.TxManagerInterface,
	auditSvc AuditServiceInterface,
	logger *zap.Logger,
) LoanServiceInterface {
	return &LoanService{
		loanRepo:    loanRepo,
		articleRepo: articleRepo,
		txManager:   txManager,
		auditSvc:    auditSvc,
		logger:      logger,
	}
}

func (s *LoanService) GetLoans(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	return s.loanRepo.GetLoans(ctx, filter)
}

func (s *LoanService) GetOverdue(ctx context.Context, filter types.Filter) ([]dto.LoanDTO, uint64, error) {
	return s.loanRepo.GetOverdue(ctx, filter)
}

func (s *LoanService) FindLoan(ctx context.Context, id uint64) (*dto.LoanDTO, error) {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	loanDTO := repositories.LoanToDTO(loan)
	return &loanDTO, nil
}

// CreateLoan opens a loan in the pending state. The article keeps its
// current state until delivery.
func (s *LoanService) CreateLoan(ctx context.Context, payload dto.CreateLoanDTO) (*dto.LoanDTO, error) {
	article, err := s.articleRepo.FindArticle(ctx, payload.ArticleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewInvalidInputError("article not found")
		}
		return nil, err
	}
	if !article.Active {
		return nil, apperrors.NewInvalidInputError("article not found")
	}
	if article.StateCode != constants.ArticleAvailable {
		return nil, apperrors.NewInvalidInputError("article is not available")
	}

	active, err := s.loanRepo.HasActiveLoan(ctx, payload.UserID, payload.ArticleID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.NewInvalidInputError("user already has an active loan of this article")
	}

	created, err := s.loanRepo.CreateLoan(ctx, payload)
	if err != nil {
		return nil, err
	}

	createdDTO := repositories.LoanToDTO(created)
	s.auditSvc.LogAction(ctx, constants.ActionCreate, loansTableName, &created.ID, nil, createdDTO)
	return &createdDTO, nil
}

func (s *LoanService) UpdateLoan(ctx context.Context, id uint64, payload dto.UpdateLoanDTO) (*dto.LoanDTO, error) {
	before, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.loanRepo.UpdateLoan(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	updatedDTO := repositories.LoanToDTO(updated)
	s.auditSvc.LogAction(ctx, constants.ActionUpdate, loansTableName, &id, repositories.LoanToDTO(before), updatedDTO)
	return &updatedDTO, nil
}

func (s *LoanService) DeleteLoan(ctx context.Context, id uint64) error {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return err
	}
	if loan.StateCode != constants.LoanPending {
		return apperrors.NewInvalidInputError("only pending loans can be deleted")
	}

	if err := s.loanRepo.DeleteLoan(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAction(ctx, constants.ActionDelete, loansTableName, &id, repositories.LoanToDTO(loan), nil)
	return nil
}

// ApproveLoan moves a pending loan to approved. When the payload carries
// an actual delivery timestamp the loan goes straight to delivered and
// the article becomes loaned, both inside one transaction.
func (s *LoanService) ApproveLoan(ctx context.Context, id uint64, payload dto.ApproveLoanDTO) (*dto.LoanDTO, error) {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.StateCode != constants.LoanPending {
		return nil, apperrors.NewInvalidInputError("only pending loans can be approved")
	}

	now := time.Now()
	set := map[string]interface{}{
		"approved_by": utils.UserIDOrNil(ctx),
		"approved_at": now,
	}
	if payload.Observations != "" {
		set["observations"] = payload.Observations
	}

	targetState := constants.LoanApproved
	deliver := payload.DeliveredAt.Valid
	if deliver {
		targetState = constants.LoanDelivered
		set["delivered_at"] = payload.DeliveredAt.Time
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.loanRepo.SetStateInTx(ctx, tx, id, targetState, set); err != nil {
			return err
		}
		if deliver {
			return s.articleRepo.UpdateStateInTx(ctx, tx, loan.ArticleID, constants.ArticleLoaned)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := constants.ActionApprove
	if deliver {
		action = constants.ActionDeliver
	}
	return s.finishTransition(ctx, action, id, loan)
}

func (s *LoanService) RejectLoan(ctx context.Context, id uint64, payload dto.RejectLoanDTO) (*dto.LoanDTO, error) {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.StateCode != constants.LoanPending {
		return nil, apperrors.NewInvalidInputError("only pending loans can be rejected")
	}

	set := map[string]interface{}{
		"approved_by": utils.UserIDOrNil(ctx),
		"approved_at": time.Now(),
	}
	if payload.Observations != "" {
		set["observations"] = payload.Observations
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return s.loanRepo.SetStateInTx(ctx, tx, id, constants.LoanRejected, set)
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, constants.ActionReject, id, loan)
}

func (s *LoanService) DeliverLoan(ctx context.Context, id uint64) (*dto.LoanDTO, error) {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan.StateCode != constants.LoanApproved {
		return nil, apperrors.NewInvalidInputError("only approved loans can be delivered")
	}

	set := map[string]interface{}{"delivered_at": time.Now()}
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.loanRepo.SetStateInTx(ctx, tx, id, constants.LoanDelivered, set); err != nil {
			return err
		}
		return s.articleRepo.UpdateStateInTx(ctx, tx, loan.ArticleID, constants.ArticleLoaned)
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, constants.ActionDeliver, id, loan)
}

// ReturnLoan closes the loan and makes the article available again. It
// deliberately accepts any prior state so stale records can be closed out.
func (s *LoanService) ReturnLoan(ctx context.Context, id uint64, payload dto.ReturnLoanDTO) (*dto.LoanDTO, error) {
	loan, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{"returned_at": time.Now()}
	if payload.Observations != "" {
		set["observations"] = payload.Observations
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.loanRepo.SetStateInTx(ctx, tx, id, constants.LoanReturned, set); err != nil {
			return err
		}
		return s.articleRepo.UpdateStateInTx(ctx, tx, loan.ArticleID, constants.ArticleAvailable)
	})
	if err != nil {
		return nil, err
	}
	return s.finishTransition(ctx, constants.ActionReturn, id, loan)
}

func (s *LoanService) finishTransition(ctx context.Context, action string, id uint64, before *entities.Loan) (*dto.LoanDTO, error) {
	after, err := s.loanRepo.FindLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	afterDTO := repositories.LoanToDTO(after)
	s.auditSvc.LogAction(ctx, action, loansTableName, &id, repositories.LoanToDTO(before), afterDTO)
	return &afterDTO, nil
}
