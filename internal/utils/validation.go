package utils

import (
	"fmt"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
)

// ValidateJobPosting 检查职位的薪资区间和有效期设置
func ValidateJobPosting(job *domain.Job) error {
	if job.SalaryMin < 0 || job.SalaryMax < 0 {
		return fmt.Errorf("薪资不能为负数")
	}

	if job.SalaryMax > 0 && job.SalaryMin > job.SalaryMax {
		return fmt.Errorf("薪资下限不能高于薪资上限")
	}

	if !job.ExpiresAt.IsZero() && job.ExpiresAt.Before(time.Now()) {
		return fmt.Errorf("职位有效期不能早于当前时间")
	}

	return nil
}
