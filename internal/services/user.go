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

const usersTableName = "users"

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	auditSvc AuditServiceInterface
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	auditSvc AuditServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, auditSvc: auditSvc, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]dto.UserDTO, uint64, error) {
	return s.userRepo.GetUsers(ctx, uint64(filter.Limit), uint64(filter.Offset), filter.Search)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	userDTO := repositories.UserToDTO(user)
	return &userDTO, nil
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*dto.UserDTO, error) {
	if err := s.checkUnique(ctx, payload.Email, payload.NationalID, 0); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.CreateUser(ctx, payload, hash)
	if err != nil {
		return nil, err
	}

	createdDTO := repositories.UserToDTO(created)
	s.auditSvc.LogAction(ctx, constants.ActionCreate, usersTableName, &created.ID, nil, createdDTO)
	return &createdDTO, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*dto.UserDTO, error) {
	before, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Email != nil {
		exists, err := s.userRepo.EmailExists(ctx, *payload.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.NewInvalidInputError("email already registered")
		}
	}

	var hash *string
	if payload.Password != nil {
		h, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}

	updated, err := s.userRepo.UpdateUser(ctx, id, payload, hash)
	if err != nil {
		return nil, err
	}

	updatedDTO := repositories.UserToDTO(updated)
	s.auditSvc.LogAction(ctx, constants.ActionUpdate, usersTableName, &id, repositories.UserToDTO(before), updatedDTO)
	return &updatedDTO, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	before, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.DeactivateUser(ctx, id); err != nil {
		return err
	}
	s.auditSvc.LogAction(ctx, constants.ActionDelete, usersTableName, &id, repositories.UserToDTO(before), nil)
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, email, nationalID string, excludeID uint64) error {
	emailTaken, err := s.userRepo.EmailExists(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if emailTaken {
		return apperrors.NewInvalidInputError("email already registered")
	}

	idTaken, err := s.userRepo.NationalIDExists(ctx, nationalID, excludeID)
	if err != nil {
		return err
	}
	if idTaken {
		return apperrors.NewInvalidInputError("national id already registered")
	}
	return nil
}
