package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "usersphere/internal/adapter/database/postgres"
	domain "usersphere/internal/core/domain"
	port "usersphere/internal/core/port"
)

// userColumns keeps scan order independent from the physical column
// order of the table.
var userColumns = []string{
	"id", "uuid", "name", "email", "encrypted_password",
	"age", "is_active", "created_at", "updated_at", "deleted_at",
}

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func scanUser(row pgx.Row) (domain.User, error) {
	var data domain.User

	err := row.Scan(
		&data.ID,
		&data.UUID,
		&data.Name,
		&data.Email,
		&data.EncryptedPassword,
		&data.Age,
		&data.IsActive,
		&data.CreatedAt,
		&data.UpdatedAt,
		&data.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		return domain.User{}, err
	}

	return data, nil
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		Where("deleted_at IS NULL").
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where("deleted_at IS NULL").
		OrderBy("id ASC")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return collectUsers(rows)
}

func (ur *UserRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"

	query := ur.db.QueryBuilder.Select(userColumns...).
		From("users").
		Where("deleted_at IS NULL").
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
		}).
		OrderBy("id ASC")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	users := []domain.User{}

	for rows.Next() {
		user, err := scanUser(rows)

		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	uid := user.UUID.String()

	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "age", "is_active", "created_at", "updated_at").
		Values(uid, user.Name, user.Email, user.EncryptedPassword, user.Age, user.IsActive, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	saved, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}

		slog.Error("Error creating user", "error", err)
		return domain.User{}, err
	}

	return saved, nil
}

func (ur *UserRepository) UpdateByUUID(ctx context.Context, uid string, changes domain.UserUpdate) (domain.User, error) {
	current, err := ur.GetByUUID(ctx, uid)

	if err != nil {
		return domain.User{}, err
	}

	if changes.Name != nil {
		current.Name = *changes.Name
	}

	if changes.Email != nil {
		current.Email = *changes.Email
	}

	if changes.EncryptedPassword != nil {
		current.EncryptedPassword = *changes.EncryptedPassword
	}

	if changes.Age != nil {
		current.Age = changes.Age
	}

	current.UpdatedAt = time.Now()

	query := ur.db.QueryBuilder.Update("users").
		SetMap(sq.Eq{
			"name":               current.Name,
			"email":              current.Email,
			"encrypted_password": current.EncryptedPassword,
			"age":                current.Age,
			"updated_at":         current.UpdatedAt,
		}).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	updated, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}

		return domain.User{}, err
	}

	return updated, nil
}

func (ur *UserRepository) SoftDeleteByUUID(ctx context.Context, uid string) error {
	now := time.Now()

	query := ur.db.QueryBuilder.Update("users").
		Set("is_active", false).
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL")

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	tag, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting user", "error", err)
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (ur *UserRepository) RestoreByUUID(ctx context.Context, uid string) (domain.User, error) {
	query := ur.db.QueryBuilder.Update("users").
		Set("is_active", true).
		Set("deleted_at", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NOT NULL").
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	restored, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, domain.ErrUserNotFound) {
		// Distinguish a missing row from one that was never deleted.
		if _, activeErr := ur.GetByUUID(ctx, uid); activeErr == nil {
			return domain.User{}, domain.ErrUserNotDeleted
		}

		return domain.User{}, domain.ErrUserNotFound
	}

	if err != nil {
		// The email may have been re-registered while the row was deleted.
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}

		return domain.User{}, err
	}

	return restored, nil
}

func (ur *UserRepository) HardDeleteByUUID(ctx context.Context, uid string) error {
	stmt, args, err := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"uuid": uid}).
		ToSql()

	if err != nil {
		return err
	}

	tag, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (ur *UserRepository) CountActive(ctx context.Context) (int, error) {
	query := ur.db.QueryBuilder.Select("COUNT(*)").
		From("users").
		Where("deleted_at IS NULL").
		Where(sq.Eq{"is_active": true})

	stmt, args, err := query.ToSql()

	if err != nil {
		return 0, err
	}

	var count int

	if err := ur.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
