package router

import (
	"task-go/internal/config"
	"task-go/internal/handler"
	"task-go/internal/middleware"
	"task-go/internal/repository"
	"task-go/internal/service"
	"task-go/internal/utils"
	"task-go/pkg/importlimit"
	"task-go/pkg/mailer"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(
	cfg *config.Config,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	m *mailer.Mailer,
	reminderService *service.ReminderService,
) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 注册自定义绑定校验（taskstatus等）
	utils.RegisterGinValidators()

	r := gin.New()

	// 全局中间件
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.MetricsMiddleware())

	// 服务信息
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Gerenciador de Tarefas API",
			"version": "1.0.0",
		})
	})

	// 健康检查
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 初始化Repository
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	stepRepo := repository.NewStepRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)

	// 初始化Service
	authService := service.NewAuthService(userRepo, jwtManager, cfg)
	taskService := service.NewTaskService(taskRepo, stepRepo, categoryRepo, knowledgeRepo, logger)
	importService := service.NewImportService(taskRepo, categoryRepo, logger)
	exportService := service.NewExportService(taskRepo)
	categoryService := service.NewCategoryService(categoryRepo, taskRepo)
	knowledgeService := service.NewKnowledgeService(knowledgeRepo)
	commentService := service.NewCommentService(m, cfg.Admin.Email, logger)

	// 初始化导入并发限制器
	importLimiter := importlimit.NewLimiter(
		redisClient,
		cfg.Import.MaxConcurrentPerUser,
		"import_slot:",
		cfg.Import.GetSlotTTL(),
	)

	// 初始化Handler
	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService, importService, exportService, importLimiter, cfg.Reminder.OverdueDays)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	knowledgeHandler := handler.NewKnowledgeHandler(knowledgeService)
	commentHandler := handler.NewCommentHandler(commentService)
	adminHandler := handler.NewAdminHandler(userRepo, taskRepo, reminderService)

	// API路由组
	api := r.Group("/api")
	{
		// 公开路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// 版本信息
		api.GET("/versao", func(c *gin.Context) {
			c.JSON(200, gin.H{"versao": "1.0.0"})
		})

		// 认证路由
		authorized := api.Group("")
		authorized.Use(middleware.AuthMiddleware(jwtManager))
		{
			// 用户信息
			authorized.GET("/me", authHandler.GetMe)
			authorized.POST("/logout", authHandler.Logout)

			// 仪表盘
			authorized.GET("/dashboard", taskHandler.Dashboard)

			// 任务管理
			authorized.GET("/tarefas", taskHandler.ListTasks)
			authorized.POST("/tarefas", taskHandler.CreateTask)
			authorized.GET("/tarefas/:task_id", taskHandler.GetTask)
			authorized.PUT("/tarefas/:task_id", taskHandler.UpdateTask)
			authorized.DELETE("/tarefas/:task_id", taskHandler.DeleteTask)
			authorized.POST("/tarefas/:task_id/arquivar", taskHandler.ArchiveTask)
			authorized.GET("/tarefas_arquivadas", taskHandler.ListArchived)
			authorized.GET("/tarefas_atrasadas", taskHandler.ListOverdue)

			// 步骤切换（只接受POST，其他动词返回结构化405）
			authorized.POST("/etapas/:step_id/toggle", taskHandler.ToggleStep)
			authorized.GET("/etapas/:step_id/toggle", taskHandler.ToggleStepWrongMethod)

			// CSV导入导出
			authorized.POST("/tarefas/importar", taskHandler.ImportTasks)
			authorized.GET("/tarefas/exportar", taskHandler.ExportArchived)

			// 分类管理
			authorized.GET("/categorias", categoryHandler.ListCategories)
			authorized.POST("/categorias", categoryHandler.CreateCategory)
			authorized.GET("/categorias/:category_id", categoryHandler.GetCategory)
			authorized.PUT("/categorias/:category_id", categoryHandler.UpdateCategory)
			authorized.DELETE("/categorias/:category_id", categoryHandler.DeleteCategory)

			// 知识库
			authorized.GET("/conhecimentos", knowledgeHandler.ListNotes)
			authorized.POST("/conhecimentos", knowledgeHandler.CreateNote)
			authorized.GET("/conhecimentos/:note_id", knowledgeHandler.GetNote)
			authorized.PUT("/conhecimentos/:note_id", knowledgeHandler.UpdateNote)
			authorized.DELETE("/conhecimentos/:note_id", knowledgeHandler.DeleteNote)

			// 留言
			authorized.POST("/comentarios", commentHandler.SubmitComment)

			// 管理员接口
			adminGroup := authorized.Group("/admin")
			adminGroup.Use(middleware.AdminMiddleware())
			{
				adminGroup.GET("/users", adminHandler.ListUsers)
				adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
				adminGroup.GET("/tasks", adminHandler.ListAllTasks)
				adminGroup.POST("/reminder/run", adminHandler.RunReminder)
			}
		}
	}

	return r
}
