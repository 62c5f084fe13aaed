package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/campushire/talent-market/backend/internal/config"
	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/repository"
)

// NewRepositorySources 构建四个标准的活动来源：新用户注册、职位发布、
// 已完成的支付、预启动登记。顺序是固定的，时间戳相同的事件按这个顺序排列
func NewRepositorySources(cfg *config.Config, repo *repository.Repository) []Source {
	limit := cfg.Activity.SourceLimit
	windowDays := cfg.Activity.WindowDays

	return []Source{
		{
			Name: "registrations",
			Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
				profiles, err := repo.GetRecentProfiles(Window(time.Now(), windowDays), limit)
				if err != nil {
					return nil, err
				}

				events := make([]*domain.ActivityEvent, 0, len(profiles))
				for _, profile := range profiles {
					events = append(events, EventFromProfile(profile))
				}
				return events, nil
			},
		},
		{
			Name: "jobs",
			Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
				jobs, err := repo.GetRecentJobs(Window(time.Now(), windowDays), limit)
				if err != nil {
					return nil, err
				}

				events := make([]*domain.ActivityEvent, 0, len(jobs))
				for _, job := range jobs {
					events = append(events, EventFromJob(job))
				}
				return events, nil
			},
		},
		{
			Name: "payments",
			Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
				payments, err := repo.GetRecentCompletedPayments(Window(time.Now(), windowDays), limit)
				if err != nil {
					return nil, err
				}

				events := make([]*domain.ActivityEvent, 0, len(payments))
				for _, payment := range payments {
					events = append(events, EventFromPayment(payment))
				}
				return events, nil
			},
		},
		{
			Name: "waitlist",
			Fetch: func(ctx context.Context) ([]*domain.ActivityEvent, error) {
				signups, err := repo.GetRecentWaitlistSignups(Window(time.Now(), windowDays), limit)
				if err != nil {
					return nil, err
				}

				events := make([]*domain.ActivityEvent, 0, len(signups))
				for _, signup := range signups {
					events = append(events, EventFromWaitlistSignup(signup))
				}
				return events, nil
			},
		},
	}
}

// 注册事件恒为 success
func EventFromProfile(profile *domain.Profile) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		Type:      domain.ActivityTypeRegistration,
		Message:   fmt.Sprintf("新用户 %s%s 完成注册", profile.LastName, profile.FirstName),
		Timestamp: profile.CreatedAt,
		Status:    domain.ActivityStatusSuccess,
		Source:    profile,
	}
}

// 在招的职位是 success，暂停或关闭的职位是 info
func EventFromJob(job *domain.Job) *domain.ActivityEvent {
	status := domain.ActivityStatusInfo
	if job.Status == domain.JobStatusActive {
		status = domain.ActivityStatusSuccess
	}

	return &domain.ActivityEvent{
		Type:      domain.ActivityTypeJobPosting,
		Message:   fmt.Sprintf("%s 发布了职位「%s」", job.Company, job.Title),
		Timestamp: job.PostedAt,
		Status:    status,
		Source:    job,
	}
}

// 只有已完成的支付会进入活动流，且恒为 success
func EventFromPayment(payment *domain.Payment) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		Type:      domain.ActivityTypePayment,
		Message:   fmt.Sprintf("收到一笔 %.2f 元的付款", float64(payment.Amount)/100),
		Timestamp: payment.CreatedAt,
		Status:    domain.ActivityStatusSuccess,
		Source:    payment,
	}
}

// 预启动登记恒为 info
func EventFromWaitlistSignup(signup *domain.WaitlistSignup) *domain.ActivityEvent {
	return &domain.ActivityEvent{
		Type:      domain.ActivityTypeWaitlist,
		Message:   fmt.Sprintf("%s 加入了 %s 的候补名单", signup.Email, signup.City),
		Timestamp: signup.CreatedAt,
		Status:    domain.ActivityStatusInfo,
		Source:    signup,
	}
}
