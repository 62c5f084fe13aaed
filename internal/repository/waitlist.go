package repository

import (
	"context"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (r *Repository) CreateWaitlistSignup(signup *domain.WaitlistSignup) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO waitlist (email, first_name, last_name, role, city, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	args := []any{signup.Email, signup.FirstName, signup.LastName, string(signup.Role), signup.City, signup.Status}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&signup.ID, &signup.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckWaitlistEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM waitlist WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// GetRecentWaitlistSignups 获取最近的预启动登记，供活动聚合使用
func (r *Repository) GetRecentWaitlistSignups(since time.Time, limit int) ([]*domain.WaitlistSignup, error) {
	query := `
		SELECT id, email, first_name, last_name, role, city, status, created_at
		FROM waitlist
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signups := make([]*domain.WaitlistSignup, 0)
	for rows.Next() {
		signup := &domain.WaitlistSignup{}
		var role string
		dst := []any{&signup.ID, &signup.Email, &signup.FirstName, &signup.LastName, &role, &signup.City, &signup.Status, &signup.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		signup.Role = domain.ParseRole(role)
		signups = append(signups, signup)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return signups, nil
}
