package main

import (
	"log"
	"os"

	"task-go/internal/config"
	"task-go/internal/models"
	"task-go/internal/repository"
	"task-go/internal/router"
	"task-go/internal/service"
	"task-go/internal/utils"
	"task-go/pkg/mailer"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// 加载配置（从项目根目录读取）
	cfg, err := config.LoadConfig("./config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// 初始化数据库
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	db := models.GetDB()

	// 初始化Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	// 初始化工具
	jwtManager := utils.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.Algorithm,
		cfg.JWT.GetExpireDuration(),
	)

	// 初始化邮件发送器
	m := mailer.NewMailer(mailer.Config{
		Enabled:  cfg.SMTP.Enabled,
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger)

	// 初始化管理员账户
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, jwtManager, cfg)
	if err := authService.InitAdmin(); err != nil {
		logger.Warnf("初始化管理员失败: %v", err)
	}

	// 启动逾期任务提醒
	taskRepo := repository.NewTaskRepository(db)
	reminderService := service.NewReminderService(taskRepo, userRepo, m, cfg, logger)
	if cfg.Reminder.Enabled {
		if err := reminderService.Start(); err != nil {
			log.Fatalf("启动提醒服务失败: %v", err)
		}
		defer reminderService.Stop()
	}

	// 设置路由
	r := router.SetupRouter(cfg, jwtManager, logger, db, redisClient, m, reminderService)

	// 启动服务器
	addr := cfg.Server.GetAddress()
	logger.Infof("服务器启动在 %s", addr)

	if !cfg.Server.ProductionMode {
		logger.Infof("开发模式: 管理员账号 %s", cfg.Admin.Email)
	}

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
