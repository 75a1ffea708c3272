package services

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/config"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User), nextID: 1}
}

func (f *fakeUserRepo) GetUsers(ctx context.Context, limit, offset uint64, search string) ([]dto.UserDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok || !u.Active {
		return nil, apperrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Active {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) NationalIDExists(ctx context.Context, nationalID string, excludeID uint64) (bool, error) {
	for _, u := range f.users {
		if u.NationalID == nationalID && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, payload dto.CreateUserDTO, passwordHash string) (*entities.User, error) {
	u := &entities.User{
		ID:           f.nextID,
		NationalID:   payload.NationalID,
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Email:        payload.Email,
		PasswordHash: passwordHash,
		RoleID:       payload.RoleID,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	f.nextID++
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, passwordHash *string) (*entities.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if payload.Email != nil {
		u.Email = *payload.Email
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) DeactivateUser(ctx context.Context, id uint64) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.Active = false
	return nil
}

func (f *fakeUserRepo) TouchLastAccess(ctx context.Context, id uint64) error { return nil }

type fakeCacheRepo struct {
	values map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	f.values[key] = "1"
	return nil
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (f *fakeCacheRepo) Del(ctx context.Context, key ...string) error {
	for _, k := range key {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeCacheRepo) Incr(ctx context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (f *fakeCacheRepo) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

type authTestEnv struct {
	svc      AuthServiceInterface
	userRepo *fakeUserRepo
	cache    *fakeCacheRepo
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	userRepo := newFakeUserRepo()
	cache := newFakeCacheRepo()
	jwtSvc := service.NewJWTService("test-secret", "inventory-system", "inventory-system-clients", time.Hour, zap.NewNop())
	cfg := config.AuthConfig{MaxLoginAttempts: 3, LockoutDuration: time.Minute}
	svc := NewAuthService(userRepo, cache, jwtSvc, &fakeAuditService{}, cfg, zap.NewNop())
	return &authTestEnv{svc: svc, userRepo: userRepo, cache: cache}
}

func (e *authTestEnv) registerUser(t *testing.T, email string) *dto.AuthResponseDTO {
	t.Helper()
	res, err := e.svc.Register(context.Background(), dto.RegisterDTO{
		NationalID: "1234567890",
		FirstName:  "John",
		LastName:   "Doe",
		Email:      email,
		Password:   "secret123",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterIssuesToken(t *testing.T) {
	env := newAuthTestEnv(t)

	res := env.registerUser(t, "john@example.com")

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "john@example.com", res.User.Email)
	assert.Equal(t, "John Doe", res.User.FullName)
	assert.Equal(t, constants.RoleUserID, res.User.RoleID)
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	env := newAuthTestEnv(t)

	env.registerUser(t, "john@example.com")

	user, err := env.userRepo.FindUserByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(user.PasswordHash, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	_, err := env.svc.Register(context.Background(), dto.RegisterDTO{
		NationalID: "0987654321",
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "john@example.com",
		Password:   "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "email already registered", apperrors.PublicMessage(err))
	assert.Len(t, env.userRepo.users, 1)
}

func TestRegisterDuplicateNationalID(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	_, err := env.svc.Register(context.Background(), dto.RegisterDTO{
		NationalID: "1234567890",
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@example.com",
		Password:   "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, "national id already registered", apperrors.PublicMessage(err))
}

func TestLoginSuccess(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	res, err := env.svc.Login(context.Background(), dto.LoginDTO{
		Email: "john@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestLoginUniformFailureMessage(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	_, unknownErr := env.svc.Login(context.Background(), dto.LoginDTO{
		Email: "nobody@example.com", Password: "secret123",
	})
	_, wrongPassErr := env.svc.Login(context.Background(), dto.LoginDTO{
		Email: "john@example.com", Password: "wrong",
	})

	assert.ErrorIs(t, unknownErr, apperrors.ErrInvalidLogin)
	assert.ErrorIs(t, wrongPassErr, apperrors.ErrInvalidLogin)
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	for i := 0; i < 3; i++ {
		_, err := env.svc.Login(context.Background(), dto.LoginDTO{
			Email: "john@example.com", Password: "wrong",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidLogin)
	}

	// Even the right password is refused while locked out.
	_, err := env.svc.Login(context.Background(), dto.LoginDTO{
		Email: "john@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestLoginSuccessResetsAttemptCounter(t *testing.T) {
	env := newAuthTestEnv(t)
	env.registerUser(t, "john@example.com")

	for i := 0; i < 2; i++ {
		_, _ = env.svc.Login(context.Background(), dto.LoginDTO{
			Email: "john@example.com", Password: "wrong",
		})
	}
	_, err := env.svc.Login(context.Background(), dto.LoginDTO{
		Email: "john@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	// Counter restarted: two more failures are still below the limit.
	for i := 0; i < 2; i++ {
		_, err = env.svc.Login(context.Background(), dto.LoginDTO{
			Email: "john@example.com", Password: "wrong",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidLogin)
	}
}
