package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

func (r *Repository) CreateJob(job *domain.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO jobs (client_id, title, company, description, location, job_type, salary_min, salary_max, skills, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, posted_at, version
	`

	if job.Skills == nil {
		job.Skills = []string{}
	}
	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return err
	}

	args := []any{job.ClientID, job.Title, job.Company, job.Description, job.Location, job.JobType, job.SalaryMin, job.SalaryMax, skills, job.Status, job.ExpiresAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.PostedAt, &job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetJobByID(id int64) (*domain.Job, error) {
	query := `
		SELECT client_id, title, company, description, location, job_type, salary_min, salary_max, skills, status, posted_at, expires_at, version
		FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	job := &domain.Job{
		ID: id,
	}

	var skills []byte
	dst := []any{&job.ClientID, &job.Title, &job.Company, &job.Description, &job.Location, &job.JobType, &job.SalaryMin, &job.SalaryMax, &skills, &job.Status, &job.PostedAt, &job.ExpiresAt, &job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &job.Skills); err != nil {
		return nil, err
	}

	return job, nil
}

func (r *Repository) GetAllJobs() ([]*domain.Job, error) {
	query := `
		SELECT id, client_id, title, company, description, location, job_type, salary_min, salary_max, skills, status, posted_at, expires_at, version
		FROM jobs
		ORDER BY posted_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		var skills []byte
		dst := []any{&job.ID, &job.ClientID, &job.Title, &job.Company, &job.Description, &job.Location, &job.JobType, &job.SalaryMin, &job.SalaryMax, &skills, &job.Status, &job.PostedAt, &job.ExpiresAt, &job.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(skills, &job.Skills); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) GetJobsByClientID(clientID int64) ([]*domain.Job, error) {
	query := `
		SELECT id, client_id, title, company, description, location, job_type, salary_min, salary_max, skills, status, posted_at, expires_at, version
		FROM jobs
		WHERE client_id = $1
		ORDER BY posted_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		var skills []byte
		dst := []any{&job.ID, &job.ClientID, &job.Title, &job.Company, &job.Description, &job.Location, &job.JobType, &job.SalaryMin, &job.SalaryMax, &skills, &job.Status, &job.PostedAt, &job.ExpiresAt, &job.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(skills, &job.Skills); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (r *Repository) UpdateJob(job *domain.Job) error {
	query := `
		UPDATE jobs
		SET
			title = $1,
			company = $2,
			description = $3,
			location = $4,
			job_type = $5,
			salary_min = $6,
			salary_max = $7,
			skills = $8,
			status = $9,
			expires_at = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING posted_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return err
	}

	args := []any{job.Title, job.Company, job.Description, job.Location, job.JobType, job.SalaryMin, job.SalaryMax, skills, job.Status, job.ExpiresAt, job.ID, job.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&job.PostedAt, &job.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteJob(id int64) error {
	query := `
		DELETE FROM jobs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// GetRecentJobs 获取最近发布的职位，供活动聚合使用
func (r *Repository) GetRecentJobs(since time.Time, limit int) ([]*domain.Job, error) {
	query := `
		SELECT id, client_id, title, company, description, location, job_type, salary_min, salary_max, skills, status, posted_at, expires_at, version
		FROM jobs
		WHERE posted_at >= $1
		ORDER BY posted_at DESC
		LIMIT $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job := &domain.Job{}
		var skills []byte
		dst := []any{&job.ID, &job.ClientID, &job.Title, &job.Company, &job.Description, &job.Location, &job.JobType, &job.SalaryMin, &job.SalaryMax, &skills, &job.Status, &job.PostedAt, &job.ExpiresAt, &job.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(skills, &job.Skills); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
