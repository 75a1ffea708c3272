package services

import (
	"context"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
	"inventory-system/pkg/utils"
)

type CatalogServiceInterface interface {
	GetItems(ctx context.Context, filter types.Filter, includeInactive bool) ([]dto.CatalogItemDTO, uint64, error)
	FindItem(ctx context.Context, id uint64) (*dto.CatalogItemDTO, error)
	CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*dto.CatalogItemDTO, error)
	UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*dto.CatalogItemDTO, error)
	DeleteItem(ctx context.Context, id uint64) error
}

// CatalogService handles one reference table; the router instantiates it
// once per table.
type CatalogService struct {
	catalogRepo repositories.CatalogRepositoryInterface
	auditSvc    AuditServiceInterface
	table       string
	logger      *zap.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepositoryInterface,
	auditSvc AuditServiceInterface,
	table string,
	logger *zap.Logger,
) CatalogServiceInterface {
	return &CatalogService{
		catalogRepo: catalogRepo,
		auditSvc:    auditSvc,
		table:       table,
		logger:      logger,
	}
}

func (s *CatalogService) GetItems(ctx context.Context, filter types.Filter, includeInactive bool) ([]dto.CatalogItemDTO, uint64, error) {
	return s.catalogRepo.GetItems(ctx, uint64(filter.Limit), uint64(filter.Offset), includeInactive)
}

func (s *CatalogService) FindItem(ctx context.Context, id uint64) (*dto.CatalogItemDTO, error) {
	return s.catalogRepo.FindItem(ctx, id)
}

func (s *CatalogService) CreateItem(ctx context.Context, payload dto.CreateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	exists, err := s.catalogRepo.NameExists(ctx, payload.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewInvalidInputError("name already exists in %s", s.table)
	}

	created, err := s.catalogRepo.CreateItem(ctx, payload)
	if err != nil {
		s.logger.Error("failed to create catalog item", zap.String("table", s.table), zap.Error(err))
		return nil, err
	}
	s.auditSvc.LogAction(ctx, constants.ActionCreate, s.table, utils.Ptr(created.ID), nil, created)
	return created, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, id uint64, payload dto.UpdateCatalogItemDTO) (*dto.CatalogItemDTO, error) {
	before, err := s.catalogRepo.FindItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		exists, err := s.catalogRepo.NameExists(ctx, *payload.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewInvalidInputError("name already exists in %s", s.table)
		}
	}

	updated, err := s.catalogRepo.UpdateItem(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.auditSvc.LogAction(ctx, constants.ActionUpdate, s.table, &id, before, updated)
	return updated, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint64) error {
	before, err := s.catalogRepo.FindItem(ctx, id)
	if err != nil {
		return err
	}
	if err := s.catalogRepo.DeactivateItem(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAction(ctx, constants.ActionDelete, s.table, &id, before, nil)
	return nil
}
