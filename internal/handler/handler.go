package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/campushire/talent-market/backend/internal/activity"
	"github.com/campushire/talent-market/backend/internal/config"
	"github.com/campushire/talent-market/backend/internal/domain"
	"github.com/campushire/talent-market/backend/internal/guard"
	"github.com/campushire/talent-market/backend/internal/repository"
	"github.com/campushire/talent-market/backend/internal/session"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	sessions    *session.Registry
	guard       *guard.Guard
	aggregator  *activity.Aggregator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, sessions *session.Registry, g *guard.Guard, aggregator *activity.Aggregator) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		sessions:    sessions,
		guard:       g,
		aggregator:  aggregator,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/guest", h.ContinueAsGuest)
		r.Post("/resend", h.Resend)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 前端每次跳转前调用，询问当前访问者能否进入目标页面
	h.Mux.Get("/navigation/guard", h.CheckNavigation)

	// 职位浏览对游客开放，发布和管理需要登录且角色符合
	h.Mux.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.GetAllJobs)
		r.With(h.auth, h.RequiredEffectiveRole([]domain.Role{domain.RoleClient, domain.RoleAdmin})).Post("/", h.CreateJob)
		r.With(h.auth, h.RequiredEffectiveRole([]domain.Role{domain.RoleClient, domain.RoleAdmin})).Get("/mine", h.GetMyJobs)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.jobInfo)
			r.Get("/", h.GetJob)
			r.With(h.auth, h.requireJobOwner).Patch("/", h.UpdateJob)
			r.With(h.auth, h.requireJobOwner).Delete("/", h.DeleteJob)
		})
	})

	// 预启动登记完全公开
	h.Mux.Post("/waitlist", h.JoinWaitlist)

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Patch("/profile", h.UpdateMyProfile)
		})

		r.Route("/my-role", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyRole)
			r.Put("/", h.OverrideMyRole)
			r.Delete("/", h.ClearMyRoleOverride)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredEffectiveRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/role", h.UpdateUserRole)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
			})
		})

		// 管理员仪表盘的活动流
		r.Route("/dashboard/activity", func(r chi.Router) {
			r.Use(h.RequiredEffectiveRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetActivity)
			r.Post("/read", h.MarkActivityRead)
		})
	})
}
