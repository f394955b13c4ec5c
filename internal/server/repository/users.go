// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
// SQL переносим между PostgreSQL и SQLite: плейсхолдеры $N идут по порядку,
// идентификаторы и время генерируются на стороне Go.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/IvanChernomyrdin/go-session-keeper/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-session-keeper/internal/shared/errors"
)

const identityColumns = `id, user_name, normalized_user_name, email, normalized_email,
	email_confirmed, password_hash, first_name, last_name, phone_number,
	refresh_token_expiry_time, created_at`

type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create сохраняет пользователя и его роли в одной транзакции.
//
// Ошибки:
//   - ErrDuplicateUserName / ErrDuplicateEmail при нарушении уникальности;
//   - ErrPersistence при прочих ошибках БД.
func (r *UsersRepository) Create(ctx context.Context, u models.Identity, roles []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, user_name, normalized_user_name, email, normalized_email,
		                    email_confirmed, password_hash, first_name, last_name, phone_number,
		                    created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		u.ID, u.UserName, u.NormalizedUserName, u.Email, u.NormalizedEmail,
		u.EmailConfirmed, u.PasswordHash, u.FirstName, u.LastName, u.PhoneNumber,
		u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "normalized_email") {
				return serr.ErrDuplicateEmail
			}
			return serr.ErrDuplicateUserName
		}
		return persistence("insert user", err)
	}

	for _, role := range roles {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_name) VALUES ($1,$2)`,
			u.ID, role,
		); err != nil {
			return persistence("insert role", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return persistence("commit", err)
	}
	return nil
}

// GetByUserName ищет пользователя по нормализованному имени.
func (r *UsersRepository) GetByUserName(ctx context.Context, normalizedUserName string) (models.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM users WHERE normalized_user_name=$1`,
		normalizedUserName,
	)
	return scanIdentity(row)
}

// GetByEmail ищет пользователя по нормализованному email.
func (r *UsersRepository) GetByEmail(ctx context.Context, normalizedEmail string) (models.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM users WHERE normalized_email=$1`,
		normalizedEmail,
	)
	return scanIdentity(row)
}

// GetByRefreshHash ищет владельца refresh-токена по его отпечатку.
// Не найдено → ErrNotFound (подделанный и уже заменённый токен неотличимы).
func (r *UsersRepository) GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM users WHERE refresh_token_hash=$1`,
		refreshHash,
	)
	return scanIdentity(row)
}

// GetRoles возвращает роли пользователя в алфавитном порядке.
func (r *UsersRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_name FROM user_roles WHERE user_id=$1 ORDER BY role_name`,
		userID,
	)
	if err != nil {
		return nil, persistence("select roles", err)
	}
	defer rows.Close()

	roles := make([]string, 0, 2)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, persistence("scan role", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("iterate roles", err)
	}
	return roles, nil
}

// UpdateRefresh записывает отпечаток нового refresh-токена.
//
// expiry == nil оставляет сохранённый срок жизни как есть.
// Старый отпечаток перезаписывается, поэтому предыдущий токен перестаёт находиться.
func (r *UsersRepository) UpdateRefresh(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiry *time.Time) error {
	var exp sql.NullTime
	if expiry != nil {
		exp = sql.NullTime{Time: expiry.UTC(), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET refresh_token_hash = $1,
		        refresh_token_expiry_time = COALESCE($2, refresh_token_expiry_time)
		  WHERE id = $3`,
		refreshHash, exp, userID,
	)
	if err != nil {
		return persistence("update refresh", err)
	}
	return requireAffected(res)
}

// ClearRefresh удаляет refresh-токен пользователя (logout).
func (r *UsersRepository) ClearRefresh(ctx context.Context, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET refresh_token_hash = NULL,
		        refresh_token_expiry_time = NULL
		  WHERE id = $1`,
		userID,
	)
	if err != nil {
		return persistence("clear refresh", err)
	}
	return requireAffected(res)
}

// UpdatePasswordHash перезаписывает хэш пароля (перехэширование после смены параметров).
func (r *UsersRepository) UpdatePasswordHash(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return persistence("update password hash", err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIdentity(row rowScanner) (models.Identity, error) {
	var (
		u   models.Identity
		exp sql.NullTime
	)

	err := row.Scan(
		&u.ID, &u.UserName, &u.NormalizedUserName, &u.Email, &u.NormalizedEmail,
		&u.EmailConfirmed, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber,
		&exp, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, serr.ErrNotFound
		}
		return models.Identity{}, persistence("select user", err)
	}

	if exp.Valid {
		t := exp.Time
		u.RefreshTokenExpiry = &t
	}
	return u, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return persistence("rows affected", err)
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, serr.ErrPersistence, err)
}

// isUniqueViolation распознаёт нарушение уникальности в обоих драйверах.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// без расширенных кодов остаётся только текст
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
