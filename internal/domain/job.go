package domain

import (
	"time"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

type Job struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"clientId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	JobType     string    `json:"jobType"`
	SalaryMin   int32     `json:"salaryMin"`
	SalaryMax   int32     `json:"salaryMax"`
	Skills      []string  `json:"skills"`
	Status      JobStatus `json:"status"`
	PostedAt    time.Time `json:"postedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Version     int32     `json:"-"`
}

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"userId"`
	Amount      int64         `json:"amount"` // 单位为分
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type WaitlistSignup struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	City      string    `json:"city"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
