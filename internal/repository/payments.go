package repository

import (
	"context"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (r *Repository) CreatePayment(payment *domain.Payment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO payments (user_id, amount, currency, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	args := []any{payment.UserID, payment.Amount, payment.Currency, payment.Status, payment.Description}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetRecentCompletedPayments 获取最近完成的支付记录，供活动聚合使用。
// 未完成的支付不进入活动流，所以在查询层面就过滤掉
func (r *Repository) GetRecentCompletedPayments(since time.Time, limit int) ([]*domain.Payment, error) {
	query := `
		SELECT id, user_id, amount, currency, status, description, created_at
		FROM payments
		WHERE status = 'completed' AND created_at >= $1
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

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment := &domain.Payment{}
		dst := []any{&payment.ID, &payment.UserID, &payment.Amount, &payment.Currency, &payment.Status, &payment.Description, &payment.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
