package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Me(ctx context.Context) (*dto.UserPublicDTO, error)
}

type AuthService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	jwtSvc    service.JWTService
	auditSvc  AuditServiceInterface
	cfg       config.AuthConfig
	logger    *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	auditSvc AuditServiceInterface,
	cfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		jwtSvc:    jwtSvc,
		auditSvc:  auditSvc,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	emailTaken, err := s.userRepo.EmailExists(ctx, payload.Email, 0)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, apperrors.NewInvalidInputError("email already registered")
	}

	idTaken, err := s.userRepo.NationalIDExists(ctx, payload.NationalID, 0)
	if err != nil {
		return nil, err
	}
	if idTaken {
		return nil, apperrors.NewInvalidInputError("national id already registered")
	}

	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.CreateUser(ctx, dto.CreateUserDTO{
		NationalID: payload.NationalID,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Email:      payload.Email,
		Phone:      payload.Phone,
		Password:   payload.Password,
		RoleID:     constants.RoleUserID,
	}, hash)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, constants.ActionCreate, usersTableName, &user.ID, nil, repositories.UserToDTO(user))
	return s.issueToken(user)
}

// Login deliberately reports the same failure for an unknown email and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidLogin
		}
		return nil, err
	}

	if err := s.checkLockout(ctx, user.ID); err != nil {
		return nil, err
	}

	if err := utils.ComparePasswords(user.PasswordHash, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, user.ID)
		return nil, apperrors.ErrInvalidLogin
	}
	s.resetLoginAttempts(ctx, user.ID)

	if err := s.userRepo.TouchLastAccess(ctx, user.ID); err != nil {
		s.logger.Warn("failed to record last access", zap.Uint64("userID", user.ID), zap.Error(err))
	}

	s.auditSvc.LogAction(ctx, constants.ActionLogin, usersTableName, &user.ID, nil, nil)
	return s.issueToken(user)
}

func (s *AuthService) Me(ctx context.Context) (*dto.UserPublicDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserPublicDTO{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		RoleID:   user.RoleID,
		RoleName: user.RoleName.String,
	}, nil
}

func (s *AuthService) issueToken(user *entities.User) (*dto.AuthResponseDTO, error) {
	token, err := s.jwtSvc.GenerateToken(user.ID, user.FullName(), user.Email, user.RoleID, user.RoleName.String)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponseDTO{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.GetAccessTokenTTL().Seconds()),
		User: dto.UserPublicDTO{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName(),
			RoleID:   user.RoleID,
			RoleName: user.RoleName.String,
		},
	}, nil
}

func (s *AuthService) checkLockout(ctx context.Context, userID uint64) error {
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return apperrors.ErrAccountLocked
	}
	return nil
}

func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	attempts, _ := s.cacheRepo.Incr(ctx, attemptsKey)
	if attempts == 1 {
		s.cacheRepo.Expire(ctx, attemptsKey, s.cfg.LockoutDuration)
	}
	if attempts >= int64(s.cfg.MaxLoginAttempts) {
		lockoutKey := fmt.Sprintf("lockout:%d", userID)
		s.cacheRepo.Set(ctx, lockoutKey, "locked", s.cfg.LockoutDuration)
		s.cacheRepo.Del(ctx, attemptsKey)
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, userID uint64) {
	attemptsKey := fmt.Sprintf("login_attempts:%d", userID)
	lockoutKey := fmt.Sprintf("lockout:%d", userID)
	s.cacheRepo.Del(ctx, attemptsKey, lockoutKey)
}
