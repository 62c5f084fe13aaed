package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/campushire/talent-market/backend/internal/domain"
)

// JoinWaitlist 预启动登记，完全公开
func (h *Handler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email" validate:"required,email"`
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Role      string `json:"role"`
		City      string `json:"city" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 重复登记不报错，直接告知已在名单中
	isExists, err := h.repository.CheckWaitlistEmailIfExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if isExists {
		h.successResponse(w, r, "您已在候补名单中", nil)
		return
	}

	signup := &domain.WaitlistSignup{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.ParseRole(req.Role),
		City:      req.City,
		Status:    "pending",
	}

	if err := h.repository.CreateWaitlistSignup(signup); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 准备确认邮件
	mailMessage := domain.MailMessage{
		Type: "waitlist_confirmation",
		To:   signup.Email,
		Data: domain.WaitlistMailData{
			FirstName: signup.FirstName,
			City:      signup.City,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "登记成功，确认邮件已发送", signup)
}
