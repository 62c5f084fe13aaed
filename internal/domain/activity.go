package domain

import (
	"time"
)

type ActivityType string

const (
	ActivityTypeRegistration ActivityType = "registration"
	ActivityTypeJobPosting   ActivityType = "job_posting"
	ActivityTypePayment      ActivityType = "payment"
	ActivityTypeWaitlist     ActivityType = "waitlist"
)

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusWarning ActivityStatus = "warning"
	ActivityStatusInfo    ActivityStatus = "info"
	ActivityStatusError   ActivityStatus = "error"
)

// ActivityEvent 是每次聚合时临时合成的事件，ID 只在单次聚合内唯一，
// 不能当作持久化主键使用
type ActivityEvent struct {
	ID        int            `json:"id"`
	Type      ActivityType   `json:"type"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Status    ActivityStatus `json:"status"`
	Source    any            `json:"source"`
}
