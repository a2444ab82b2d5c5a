package services

// ServiceContainer собирает все сервисы приложения в одном месте
type ServiceContainer struct {
	AuthService         AuthService
	VerificationService VerificationService
}
