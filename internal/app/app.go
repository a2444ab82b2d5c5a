package app

import (
	"context"
	"errors"
	"fmt"

	"users_backend/database"
	"users_backend/internal/auth"
	"users_backend/internal/config"
	"users_backend/internal/email"
	"users_backend/internal/handlers"
	"users_backend/internal/logger"
	"users_backend/internal/middleware"
	"users_backend/internal/models"
	"users_backend/internal/repositories"
	"users_backend/internal/routes"
	"users_backend/internal/services"
	"users_backend/internal/validator"
	"users_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.JWT.Secret == "" {
		logger.Fatal("JWT secret is not configured")
	}
	auth.Init(cfg.JWT.Secret)

	logger.Info("Connecting to database...")
	// TranslateError нужен, чтобы конфликт уникального индекса по email
	// приходил как gorm.ErrDuplicatedKey
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		// Если не удалось создать админа - не запускаем сервер
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ctx := context.Background()
	emailWorker := workers.NewEmailWorker(newEmailProvider(cfg), 64)
	emailWorker.Start(ctx)

	ginRouter := SetupRouter(cfg, gormDB, emailWorker)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает роутер поверх живой БД
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, notifier services.Notifier) *gin.Engine {
	userRepo := repositories.NewUserRepository(gormDB)
	return NewRouter(cfg, userRepo, notifier)
}

// NewRouter собирает роутер из готовых зависимостей.
// Тесты подсовывают сюда in-memory репозиторий и записывающий notifier.
func NewRouter(cfg *config.Config, userRepo repositories.UserRepository, notifier services.Notifier) *gin.Engine {
	// Сервисы
	authService := services.NewAuthService(userRepo, notifier)
	verificationService := services.NewVerificationService(userRepo, notifier)

	serviceContainer := &services.ServiceContainer{
		AuthService:         authService,
		VerificationService: verificationService,
	}

	// Хэндлеры
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	appHandlers := &handlers.AppHandlers{
		AuthHandler: handlers.NewAuthHandler(baseHandler, serviceContainer.AuthService, serviceContainer.VerificationService),
	}

	// Gin + сквозные middleware
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	routes.RegisterRoutes(ginRouter, appHandlers,
		middleware.AuthMiddleware(userRepo),
		middleware.AdminMiddleware(),
	)

	return ginRouter
}

// newEmailProvider выбирает реальный SMTP провайдер или мок,
// если SMTP не сконфигурирован (локальная разработка)
func newEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured, using mock email provider")
		return &MockEmailProvider{}
	}

	smtpConfig := email.DefaultConfig()
	smtpConfig.Host = cfg.Email.SMTPHost
	if cfg.Email.SMTPPort != 0 {
		smtpConfig.Port = cfg.Email.SMTPPort
	}
	smtpConfig.Username = cfg.Email.SMTPUsername
	smtpConfig.Password = cfg.Email.SMTPPassword
	smtpConfig.FromEmail = cfg.Email.FromEmail
	smtpConfig.FromName = cfg.Email.FromName
	smtpConfig.UseTLS = cfg.Email.UseTLS
	return email.NewSMTPProvider(smtpConfig, email.NewTemplateManager())
}

// seedFirstAdmin создает первого администратора из конфига,
// если в таблице еще нет ни одного админа
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Info("Admin seed is not configured, skipping")
		return nil
	}

	var existing models.User
	err := db.Where("is_admin = ?", true).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Email:        cfg.Admin.Email,
		PasswordHash: passwordHash,
		IsVerified:   true,
		IsAdmin:      true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Info("First admin user seeded", "email", cfg.Admin.Email)
	return nil
}
