package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
)

type ReportServiceInterface interface {
	GetLoanReport(ctx context.Context, filter entities.LoanReportFilter) ([]entities.LoanReportItem, uint64, error)
	GetLoanReportDTOs(ctx context.Context, filter entities.LoanReportFilter) ([]dto.LoanReportItemDTO, uint64, error)
	GetArticleReport(ctx context.Context) ([]entities.ArticleReportItem, error)
	GetArticleReportDTOs(ctx context.Context) ([]dto.ArticleReportItemDTO, error)
}

type reportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{reportRepo: reportRepo, logger: logger}
}

func (s *reportService) GetLoanReport(ctx context.Context, filter entities.LoanReportFilter) ([]entities.LoanReportItem, uint64, error) {
	return s.reportRepo.GetLoanReport(ctx, filter)
}

func (s *reportService) GetLoanReportDTOs(ctx context.Context, filter entities.LoanReportFilter) ([]dto.LoanReportItemDTO, uint64, error) {
	items, total, err := s.reportRepo.GetLoanReport(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	const layout = "2006-01-02 15:04:05"
	dtos := make([]dto.LoanReportItemDTO, 0, len(items))
	for _, it := range items {
		d := dto.LoanReportItemDTO{
			LoanID:       it.LoanID,
			UserName:     it.UserName.String,
			ArticleCode:  it.ArticleCode.String,
			ArticleName:  it.ArticleName.String,
			StateName:    it.StateName.String,
			RequestedAt:  it.RequestedAt.Local().Format(layout),
			ApproverName: it.ApproverName.String,
			Observations: it.Observations.String,
		}
		if it.DeliveredAt.Valid {
			d.DeliveredAt = it.DeliveredAt.Time.Local().Format(layout)
		}
		if it.ReturnedAt.Valid {
			d.ReturnedAt = it.ReturnedAt.Time.Local().Format(layout)
		}
		dtos = append(dtos, d)
	}
	return dtos, total, nil
}

func (s *reportService) GetArticleReport(ctx context.Context) ([]entities.ArticleReportItem, error) {
	return s.reportRepo.GetArticleReport(ctx)
}

func (s *reportService) GetArticleReportDTOs(ctx context.Context) ([]dto.ArticleReportItemDTO, error) {
	items, err := s.reportRepo.GetArticleReport(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.ArticleReportItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, dto.ArticleReportItemDTO{
			ArticleID:    it.ArticleID,
			Code:         it.Code,
			Name:         it.Name,
			CategoryName: it.CategoryName.String,
			StateName:    it.StateName.String,
			Location:     it.Location.String,
			Stock:        it.Stock,
			Price:        it.Price.Float64,
			ActiveLoans:  it.ActiveLoans,
		})
	}
	return dtos, nil
}
