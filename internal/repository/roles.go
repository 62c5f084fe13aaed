package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

// GetUserRole 获取用户的角色，缺行或者存了非法值时统一返回 client
func (r *Repository) GetUserRole(userID int64) (domain.Role, error) {
	query := `
		SELECT role FROM user_roles WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var role string
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(&role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RoleClient, nil
		}
		return domain.RoleClient, err
	}

	return domain.ParseRole(role), nil
}

// EnsureUserRole 确保用户存在角色行，已存在时不覆盖
func (r *Repository) EnsureUserRole(userID int64, role domain.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, userID, string(role)); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateUserRole(userID int64, role domain.Role) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, userID, string(role)); err != nil {
		return err
	}

	return nil
}
