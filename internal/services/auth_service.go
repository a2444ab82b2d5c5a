package services

import (
	"context"
	"fmt"

	"users_backend/internal/auth"
	"users_backend/internal/logger"
	"users_backend/internal/models"
	"users_backend/internal/repositories"
	"users_backend/internal/services/dto"
	"users_backend/pkg/apperrors"
)

// Notifier - контракт сборщика уведомлений: положить письмо с кодом
// в очередь и сразу вернуться. Доставка асинхронная, best-effort.
type Notifier interface {
	EnqueueVerification(to string, code string)
}

type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignupRequest) (*dto.Receipt, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.Receipt, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	DeleteUser(ctx context.Context, user *models.User) (*dto.Receipt, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

type AuthServiceImpl struct {
	userRepo repositories.UserRepository
	notifier Notifier
}

func NewAuthService(userRepo repositories.UserRepository, notifier Notifier) AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// SignUp - регистрация нового пользователя.
// Аккаунт создается неверифицированным, код уходит на почту одним
// уведомлением. Конфликт по email приходит из уникального индекса БД,
// а не только из предварительной проверки.
func (s *AuthServiceImpl) SignUp(ctx context.Context, req *dto.SignupRequest) (*dto.Receipt, error) {
	// Проверка сложности не зависит от транспортной валидации DTO
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil && !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.StorageError(err)
	}
	if existing != nil {
		logger.CtxWarn(ctx, "Signup rejected: user already exists", "email", req.Email)
		return nil, apperrors.ErrUserAlreadyExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	verificationCode, err := auth.GenerateVerificationCode(auth.DefaultCodeLength)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:            req.Email,
		PasswordHash:     passwordHash,
		VerificationCode: verificationCode,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			// Проиграли гонку двух одновременных регистраций
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, apperrors.StorageError(err)
	}

	s.notifier.EnqueueVerification(user.Email, verificationCode)
	logger.CtxInfo(ctx, "User signed up", "email", user.Email, "user_id", user.ID)

	return dto.NewReceipt(user.Email, "User created successfully. Verification code sent to email."), nil
}

// VerifyEmail - подтверждение email по коду.
// Несовпадение кода не меняет состояние аккаунта.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.Receipt, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotPresent
		}
		return nil, apperrors.StorageError(err)
	}

	// Сравнение точное, с учетом регистра
	if req.VerificationCode != user.VerificationCode {
		logger.CtxWarn(ctx, "Verification code mismatch", "email", req.Email)
		return nil, apperrors.ErrInvalidVerificationCode
	}

	if err := s.userRepo.SetVerified(ctx, user.Email, true); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "email", user.Email, "user_id", user.ID)
	return dto.NewReceipt(user.Email, "Email successfully verified"), nil
}

// Login - аутентификация пользователя.
// Неверифицированный аккаунт не получает токен независимо от
// правильности учетных данных.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.StorageError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Login rejected: bad credentials", "email", req.Email)
		return "", apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		logger.CtxWarn(ctx, "Login rejected: email not verified", "email", req.Email)
		return "", apperrors.ErrEmailNotVerified
	}

	accessToken, err := auth.GenerateToken(user.ID)
	if err != nil {
		return "", apperrors.InternalError(fmt.Errorf("generate token: %w", err))
	}

	logger.CtxInfo(ctx, "User logged in", "email", user.Email, "user_id", user.ID)
	return accessToken, nil
}

// DeleteUser - необратимое удаление аккаунта
func (s *AuthServiceImpl) DeleteUser(ctx context.Context, user *models.User) (*dto.Receipt, error) {
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "User deleted", "email", user.Email, "user_id", user.ID)
	return dto.NewReceipt(user.Email, "User deleted"), nil
}

// ListAll возвращает все аккаунты. Проверка прав живет в AdminMiddleware.
func (s *AuthServiceImpl) ListAll(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.StorageError(err)
	}
	return users, nil
}
