package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/utils"
)

func (h *Handler) GetAllJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.repository.GetAllJobs()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取职位列表成功", jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)
	h.successResponse(w, r, "获取职位成功", job)
}

func (h *Handler) GetMyJobs(w http.ResponseWriter, r *http.Request) {
	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	jobs, err := h.repository.GetJobsByClientID(sub)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我发布的职位成功", jobs)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string   `json:"title" validate:"required"`
		Company     string   `json:"company" validate:"required"`
		Description string   `json:"description"`
		Location    string   `json:"location" validate:"required"`
		JobType     string   `json:"jobType" validate:"required,oneof=full-time part-time internship"`
		SalaryMin   int32    `json:"salaryMin"`
		SalaryMax   int32    `json:"salaryMax"`
		Skills      []string `json:"skills"`
		ExpiresAt   string   `json:"expiresAt" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		h.errorResponse(w, r, "有效期格式错误")
		return
	}

	subString := r.Context().Value(SubCtxKey).(string)
	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	job := &domain.Job{
		ClientID:    sub,
		Title:       req.Title,
		Company:     req.Company,
		Description: req.Description,
		Location:    req.Location,
		JobType:     req.JobType,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Skills:      req.Skills,
		Status:      domain.JobStatusActive,
		ExpiresAt:   expiresAt,
	}

	if err := utils.ValidateJobPosting(job); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "职位发布成功", job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string  `json:"title"`
		Company     *string  `json:"company"`
		Description *string  `json:"description"`
		Location    *string  `json:"location"`
		JobType     *string  `json:"jobType" validate:"omitempty,oneof=full-time part-time internship"`
		SalaryMin   *int32   `json:"salaryMin"`
		SalaryMax   *int32   `json:"salaryMax"`
		Skills      []string `json:"skills"`
		Status      *string  `json:"status" validate:"omitempty,oneof=active paused closed"`
		ExpiresAt   *string  `json:"expiresAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	job := r.Context().Value(JobCtx).(*domain.Job)

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.SalaryMin != nil {
		job.SalaryMin = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = *req.SalaryMax
	}
	if req.Skills != nil {
		job.Skills = req.Skills
	}
	if req.Status != nil {
		job.Status = domain.JobStatus(*req.Status)
	}
	if req.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			h.errorResponse(w, r, "有效期格式错误")
			return
		}
		job.ExpiresAt = expiresAt
	}

	if err := utils.ValidateJobPosting(job); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateJob(job); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "职位更新成功", job)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	job := r.Context().Value(JobCtx).(*domain.Job)

	if err := h.repository.DeleteJob(job.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "职位删除成功", nil)
}
