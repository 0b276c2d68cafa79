package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	sqlite3driver "github.com/mattn/go-sqlite3"

	"usersphere/internal/adapter/database/sqlite"
	"usersphere/internal/core/domain"
	"usersphere/internal/core/port"
	tel "usersphere/internal/core/telemetry"
)

type UserRepository struct {
	db        *sqlite.DB
	scanner   *sqlite.Scanner
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		scanner:   sqlite.NewScanner(),
		telemetry: telemetry,
	}
}

// isUniqueViolation detects the partial unique index on active emails.
// Driver errors may arrive wrapped by the logging adapter, hence the
// message fallback.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3driver.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3driver.ErrConstraintUnique
	}

	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}

	return err
}

func (ur *UserRepository) GetByUUID(ctx context.Context, uid string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		return domain.User{}, notFoundOr(err)
	}

	return data, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(sq.Eq{"email": email}).
		Where("deleted_at IS NULL").
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return domain.User{}, err
	}

	defer rows.Close()

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		return domain.User{}, notFoundOr(err)
	}

	return data, nil
}

func (ur *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where("deleted_at IS NULL").
		OrderBy("id ASC")

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users := []domain.User{}

	if err := ur.scanner.ScanRowsToSlice(rows, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *UserRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Search", "user", map[string]interface{}{
		"db.system":   "sqlite",
		"db.table":    "users",
		"search.term": term,
	})
	defer span.End()

	startTime := time.Now()

	pattern := "%" + strings.ToLower(term) + "%"

	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where("deleted_at IS NULL").
		Where(sq.Or{
			sq.Like{"LOWER(name)": pattern},
			sq.Like{"LOWER(email)": pattern},
		}).
		OrderBy("id ASC")

	stmt, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return nil, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Search", "user", stmt, args)

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Search", "user", time.Since(startTime), err)
		return nil, err
	}

	defer rows.Close()

	users := []domain.User{}

	if err := ur.scanner.ScanRowsToSlice(rows, &users); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Search", "user", time.Since(startTime), err)
		return nil, err
	}

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(users),
	})
	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "Search", "user", time.Since(startTime), nil)

	return users, nil
}

func (ur *UserRepository) getByUUIDTx(ctx context.Context, tx *sql.Tx, uid string, includeDeleted bool) (domain.User, error) {
	query := ur.db.QueryBuilder.Select("*").
		From("users").
		Where(sq.Eq{"uuid": uid}).
		Limit(1)

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var data domain.User

	rows, err := tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return domain.User{}, err
	}
	defer rows.Close()

	if err := ur.scanner.ScanRowToStruct(rows, &data); err != nil {
		return domain.User{}, notFoundOr(err)
	}

	return data, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "INSERT",
		"user.uuid":    user.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	uid := user.UUID.String()

	tx, err := ur.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("Error starting transaction", "error", err)
		return domain.User{}, err
	}
	defer tx.Rollback()

	query := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "age", "is_active", "created_at", "updated_at").
		Values(uid, user.Name, user.Email, user.EncryptedPassword, user.Age, user.IsActive, user.CreatedAt, user.UpdatedAt)

	stmt, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", stmt, args)

	_, err = tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		} else {
			slog.Error("Error creating user", "error", err)
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	saved, err := ur.getByUUIDTx(ctx, tx, uid, false)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordBusinessEvent(ctx, "created", "user", saved.UUID.String(), saved.ID, map[string]interface{}{
		"email":      saved.Email,
		"created_at": saved.CreatedAt,
	})

	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), nil)

	return saved, nil
}

func (ur *UserRepository) UpdateByUUID(ctx context.Context, uid string, changes domain.UserUpdate) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.uuid":    uid,
	})
	defer span.End()

	startTime := time.Now()

	tx, err := ur.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("Error starting transaction", "error", err)
		return domain.User{}, err
	}
	defer tx.Rollback()

	current, err := ur.getByUUIDTx(ctx, tx, uid, false)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	changed := make(map[string]interface{})

	if changes.Name != nil && *changes.Name != current.Name {
		current.Name = *changes.Name
		changed["name"] = current.Name
	}

	if changes.Email != nil && *changes.Email != current.Email {
		current.Email = *changes.Email
		changed["email"] = current.Email
	}

	if changes.EncryptedPassword != nil {
		current.EncryptedPassword = *changes.EncryptedPassword
		changed["encrypted_password"] = "updated"
	}

	if changes.Age != nil {
		current.Age = changes.Age
		changed["age"] = *changes.Age
	}

	current.UpdatedAt = time.Now()

	span.SetAttributes(map[string]interface{}{
		"update.fields_count": len(changed),
	})

	query := ur.db.QueryBuilder.Update("users").
		SetMap(sq.Eq{
			"name":               current.Name,
			"email":              current.Email,
			"encrypted_password": current.EncryptedPassword,
			"age":                current.Age,
			"updated_at":         current.UpdatedAt,
		}).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL")

	stmt, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "UpdateByUUID", "user", stmt, args)

	result, err := tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	rowsAffected, err := result.RowsAffected()

	if err == nil && rowsAffected == 0 {
		err = domain.ErrUserNotFound
	}

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	updated, err := ur.getByUUIDTx(ctx, tx, uid, false)

	if err != nil {
		return domain.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}

	if len(changed) > 0 {
		ur.telemetry.RecordBusinessEvent(ctx, "updated", "user", updated.UUID.String(), updated.ID, map[string]interface{}{
			"fields":     len(changed),
			"updated_at": updated.UpdatedAt,
		})
	}

	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "user", time.Since(startTime), nil)

	return updated, nil
}

func (ur *UserRepository) SoftDeleteByUUID(ctx context.Context, uid string) error {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "SoftDeleteByUUID", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.uuid":    uid,
	})
	defer span.End()

	startTime := time.Now()
	now := time.Now()

	query := ur.db.QueryBuilder.Update("users").
		Set("is_active", false).
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL")

	stmt, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "SoftDeleteByUUID", "user", time.Since(startTime), err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		err = domain.ErrUserNotFound
		span.SetStatus("error", err.Error())
		ur.telemetry.RecordRepositoryOperation(ctx, "SoftDeleteByUUID", "user", time.Since(startTime), err)
		return err
	}

	ur.telemetry.RecordBusinessEvent(ctx, "deleted", "user", uid, 0, map[string]interface{}{
		"deleted_at": now,
	})

	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "SoftDeleteByUUID", "user", time.Since(startTime), nil)

	return nil
}

func (ur *UserRepository) RestoreByUUID(ctx context.Context, uid string) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "RestoreByUUID", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.uuid":    uid,
	})
	defer span.End()

	startTime := time.Now()

	tx, err := ur.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("Error starting transaction", "error", err)
		return domain.User{}, err
	}
	defer tx.Rollback()

	query := ur.db.QueryBuilder.Update("users").
		Set("is_active", true).
		Set("deleted_at", nil).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NOT NULL")

	stmt, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	result, err := tx.ExecContext(ctx, stmt, args...)

	if err != nil {
		// The email may have been re-registered while the row was deleted.
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		ur.telemetry.RecordRepositoryOperation(ctx, "RestoreByUUID", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		// Distinguish a missing row from one that was never deleted.
		if _, activeErr := ur.getByUUIDTx(ctx, tx, uid, false); activeErr == nil {
			err = domain.ErrUserNotDeleted
		} else {
			err = domain.ErrUserNotFound
		}

		span.SetStatus("error", err.Error())
		ur.telemetry.RecordRepositoryOperation(ctx, "RestoreByUUID", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	restored, err := ur.getByUUIDTx(ctx, tx, uid, false)

	if err != nil {
		return domain.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}

	ur.telemetry.RecordBusinessEvent(ctx, "restored", "user", restored.UUID.String(), restored.ID, map[string]interface{}{
		"restored_at": restored.UpdatedAt,
	})

	span.SetStatus("ok", "")
	ur.telemetry.RecordRepositoryOperation(ctx, "RestoreByUUID", "user", time.Since(startTime), nil)

	return restored, nil
}

func (ur *UserRepository) HardDeleteByUUID(ctx context.Context, uid string) error {
	query := ur.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"uuid": uid})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting user", "error", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
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

	if err := ur.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
