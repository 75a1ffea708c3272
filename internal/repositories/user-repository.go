package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

const userFields = `u.id, u.national_id, u.first_name, u.last_name, u.email, u.phone,
	u.password_hash, u.role_id, r.name, u.active, u.created_at, u.last_access_at`

const userJoins = `FROM users u
	JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.NationalID, &u.FirstName, &u.LastName, &u.Email, &u.Phone,
		&u.PasswordHash, &u.RoleID, &u.RoleName, &u.Active, &u.CreatedAt, &u.LastAccessAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func UserToDTO(u *entities.User) dto.UserDTO {
	const layout = "2006-01-02 15:04:05"
	lastAccess := ""
	if u.LastAccessAt.Valid {
		lastAccess = u.LastAccessAt.Time.Local().Format(layout)
	}
	return dto.UserDTO{
		ID:           u.ID,
		NationalID:   u.NationalID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone.String,
		RoleID:       u.RoleID,
		RoleName:     u.RoleName.String,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.Local().Format(layout),
		LastAccessAt: lastAccess,
	}
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, limit, offset uint64, search string) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error)
	NationalIDExists(ctx context.Context, nationalID string, excludeID uint64) (bool, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO, passwordHash string) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, passwordHash *string) (*entities.User, error)
	DeactivateUser(ctx context.Context, id uint64) error
	TouchLastAccess(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func (r *UserRepository) GetUsers(ctx context.Context, limit, offset uint64, search string) ([]dto.UserDTO, uint64, error) {
	args := make([]interface{}, 0)
	whereClause := "WHERE u.active = TRUE"
	if search != "" {
		whereClause += " AND (u.first_name ILIKE $1 OR u.last_name ILIKE $1 OR u.email ILIKE $1 OR u.national_id ILIKE $1)"
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s %s", userJoins, whereClause)
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []dto.UserDTO{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s %s %s ORDER BY u.id LIMIT $%d OFFSET $%d",
		userFields, userJoins, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]dto.UserDTO, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, UserToDTO(u))
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE u.id = $1", userFields, userJoins)
	u, err := scanUser(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE u.email = $1 AND u.active = TRUE", userFields, userJoins)
	u, err := scanUser(r.storage.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)", email, excludeID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) NationalIDExists(ctx context.Context, nationalID string, excludeID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE national_id = $1 AND id <> $2)", nationalID, excludeID).Scan(&exists)
	return exists, err
}

func (r *UserRepository) CreateUser(ctx context.Context, payload dto.CreateUserDTO, passwordHash string) (*entities.User, error) {
	query := `INSERT INTO users (national_id, first_name, last_name, email, phone, password_hash, role_id)
		VALUES (@national_id, @first_name, @last_name, @email, @phone, @password_hash, @role_id)
		RETURNING id`
	args := pgx.NamedArgs{
		"national_id":   payload.NationalID,
		"first_name":    payload.FirstName,
		"last_name":     payload.LastName,
		"email":         payload.Email,
		"phone":         nullIfEmpty(payload.Phone),
		"password_hash": passwordHash,
		"role_id":       payload.RoleID,
	}

	var id uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&id); err != nil {
		return nil, err
	}
	return r.FindUser(ctx, id)
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, passwordHash *string) (*entities.User, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if payload.FirstName != nil {
		setClauses = append(setClauses, "first_name = @first_name")
		args["first_name"] = *payload.FirstName
	}
	if payload.LastName != nil {
		setClauses = append(setClauses, "last_name = @last_name")
		args["last_name"] = *payload.LastName
	}
	if payload.Email != nil {
		setClauses = append(setClauses, "email = @email")
		args["email"] = *payload.Email
	}
	if payload.Phone != nil {
		setClauses = append(setClauses, "phone = @phone")
		args["phone"] = *payload.Phone
	}
	if passwordHash != nil {
		setClauses = append(setClauses, "password_hash = @password_hash")
		args["password_hash"] = *passwordHash
	}
	if payload.RoleID != nil {
		setClauses = append(setClauses, "role_id = @role_id")
		args["role_id"] = *payload.RoleID
	}
	if payload.Active != nil {
		setClauses = append(setClauses, "active = @active")
		args["active"] = *payload.Active
	}

	if len(setClauses) == 0 {
		return r.FindUser(ctx, id)
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = @id RETURNING id", strings.Join(setClauses, ", "))

	var updatedID uint64
	if err := r.storage.QueryRow(ctx, query, args).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return r.FindUser(ctx, updatedID)
}

func (r *UserRepository) DeactivateUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET active = FALSE WHERE id = $1 AND active = TRUE", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastAccess(ctx context.Context, id uint64) error {
	_, err := r.storage.Exec(ctx, "UPDATE users SET last_access_at = NOW() WHERE id = $1", id)
	return err
}
