package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/campushire/talent-market/backend/internal/config"
	"github.com/campushire/talent-market/backend/internal/repository"
	"github.com/campushire/talent-market/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机职位, 3: 插入随机付款记录, 4: 插入随机候补登记)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, profile, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				// 补齐资料行和角色行，和登录后的补齐流程保持一致
				profile.UserID = user.ID
				if err := repo.EnsureProfile(profile); err != nil {
					slog.Error("无法插入用户资料", slog.String("error", err.Error()))
					continue
				}
				if err := repo.EnsureUserRole(user.ID, user.RequestedRole()); err != nil {
					slog.Error("无法插入用户角色", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的职位数量")
		} else {
			// 先获取所有用户，随机选一个作为发布者
			users, err := repo.GetAllUsers()
			if err != nil {
				slog.Error("无法获取所有用户", slog.String("error", err.Error()))
				return
			}
			if len(users) == 0 {
				slog.Error("数据库中没有用户，请先插入随机用户")
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				client := users[rand.Intn(len(users))]

				job := utils.GenerateRandomJob(client.ID)
				if err := repo.CreateJob(job); err != nil {
					slog.Error("无法插入职位", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入职位成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的付款记录数量")
		} else {
			users, err := repo.GetAllUsers()
			if err != nil {
				slog.Error("无法获取所有用户", slog.String("error", err.Error()))
				return
			}
			if len(users) == 0 {
				slog.Error("数据库中没有用户，请先插入随机用户")
				return
			}

			cnt := n
			for i := 0; i < n; i++ {
				user := users[rand.Intn(len(users))]

				payment := utils.GenerateRandomPayment(user.ID)
				if err := repo.CreatePayment(payment); err != nil {
					slog.Error("无法插入付款记录", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入付款记录成功", slog.Int("count", n-cnt))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的候补登记数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				signup := utils.GenerateRandomWaitlistSignup(cfg.Seed.EmailDomain)

				// 生成的邮箱可能撞车，撞车就跳过
				isExists, err := repo.CheckWaitlistEmailIfExists(signup.Email)
				if err != nil {
					slog.Error("无法检查候补邮箱", slog.String("error", err.Error()))
					continue
				}
				if isExists {
					continue
				}

				if err := repo.CreateWaitlistSignup(signup); err != nil {
					slog.Error("无法插入候补登记", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入候补登记成功", slog.Int("count", n-cnt))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
