package repository

import (
	"context"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (r *Repository) GetProfileByUserID(userID int64) (*domain.Profile, error) {
	query := `
		SELECT first_name, last_name, email, avatar_url, created_at
		FROM profiles WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.Profile{
		UserID: userID,
	}

	dst := []any{&profile.FirstName, &profile.LastName, &profile.Email, &profile.AvatarURL, &profile.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return profile, nil
}

// EnsureProfile 如果用户还没有个人资料则创建一份，已存在时什么都不做
func (r *Repository) EnsureProfile(profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, email, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.UserID, profile.FirstName, profile.LastName, profile.Email, profile.AvatarURL}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateProfile(profile *domain.Profile) error {
	query := `
		UPDATE profiles
		SET
			first_name = $1,
			last_name = $2,
			avatar_url = $3
		WHERE user_id = $4
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.FirstName, profile.LastName, profile.AvatarURL, profile.UserID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.CreatedAt); err != nil {
		return err
	}

	return nil
}

// GetRecentProfiles 获取最近注册的用户资料，供活动聚合使用
func (r *Repository) GetRecentProfiles(since time.Time, limit int) ([]*domain.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, email, avatar_url, created_at
		FROM profiles
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

	profiles := make([]*domain.Profile, 0)
	for rows.Next() {
		profile := &domain.Profile{}
		dst := []any{&profile.UserID, &profile.FirstName, &profile.LastName, &profile.Email, &profile.AvatarURL, &profile.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
