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

// VerificationService - потоки смены пароля и email через коды верификации.
// У аккаунта один слот кода: новый код молча затирает предыдущий,
// после успешного использования код не инвалидируется.
type VerificationService interface {
	VerifyPassword(ctx context.Context, user *models.User, req *dto.VerifyPasswordRequest) (*dto.Receipt, error)
	ResetPassword(ctx context.Context, user *models.User) (*dto.Receipt, error)
	VerifyNewEmail(ctx context.Context, user *models.User, req *dto.VerifyNewEmailRequest) (*dto.Receipt, error)
	ResetEmail(ctx context.Context, user *models.User) (*dto.Receipt, error)
	UpdatePortfolioID(ctx context.Context, req *dto.UpdatePortfolioIDRequest) (*dto.Receipt, error)
}

type VerificationServiceImpl struct {
	userRepo repositories.UserRepository
	notifier Notifier
}

func NewVerificationService(userRepo repositories.UserRepository, notifier Notifier) VerificationService {
	return &VerificationServiceImpl{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// VerifyPassword - установка нового пароля по коду.
// Несовпадение кода ничего не мутирует.
func (s *VerificationServiceImpl) VerifyPassword(ctx context.Context, user *models.User, req *dto.VerifyPasswordRequest) (*dto.Receipt, error) {
	if req.VerificationCode != user.VerificationCode {
		logger.CtxWarn(ctx, "Password change rejected: code mismatch", "email", user.Email)
		return nil, apperrors.ErrInvalidVerificationCode
	}

	if err := auth.ValidatePassword(req.PasswordNew); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	passwordHash, err := auth.HashPassword(req.PasswordNew)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.userRepo.UpdateByEmail(ctx, user.Email, map[string]interface{}{
		"password_hash": passwordHash,
	}); err != nil {
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Password changed", "email", user.Email, "user_id", user.ID)
	return dto.NewReceipt(user.Email, "Password successfully changed"), nil
}

// ResetPassword - выдача нового кода для смены пароля.
// Висящий неиспользованный код затирается.
func (s *VerificationServiceImpl) ResetPassword(ctx context.Context, user *models.User) (*dto.Receipt, error) {
	verificationCode, err := auth.GenerateVerificationCode(auth.DefaultCodeLength)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.userRepo.UpdateByEmail(ctx, user.Email, map[string]interface{}{
		"verification_code": verificationCode,
	}); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.notifier.EnqueueVerification(user.Email, verificationCode)
	logger.CtxInfo(ctx, "Password reset code issued", "email", user.Email, "user_id", user.ID)

	return dto.NewReceipt(user.Email, fmt.Sprintf("Reset code sent to email: %s", user.Email)), nil
}

// VerifyNewEmail - смена адреса по коду.
// Новый адрес требует повторной верификации, флаг сбрасывается.
func (s *VerificationServiceImpl) VerifyNewEmail(ctx context.Context, user *models.User, req *dto.VerifyNewEmailRequest) (*dto.Receipt, error) {
	if req.VerificationCode != user.VerificationCode {
		logger.CtxWarn(ctx, "Email change rejected: code mismatch", "email", user.Email)
		return nil, apperrors.ErrInvalidVerificationCode
	}

	if _, err := s.userRepo.UpdateByEmail(ctx, user.Email, map[string]interface{}{
		"email":       req.EmailNew,
		"is_verified": false,
	}); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotPresent
		}
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Email changed, re-verification required",
		"old_email", user.Email, "new_email", req.EmailNew, "user_id", user.ID)

	return dto.NewReceipt(user.Email, fmt.Sprintf("Success, verify new email, code sent to %s", req.EmailNew)), nil
}

// ResetEmail - повторная выдача кода на ТЕКУЩИЙ адрес с понижением
// статуса верификации. Используется, чтобы перезапустить верификацию
// без смены адреса.
func (s *VerificationServiceImpl) ResetEmail(ctx context.Context, user *models.User) (*dto.Receipt, error) {
	verificationCode, err := auth.GenerateVerificationCode(auth.DefaultCodeLength)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.userRepo.UpdateByEmail(ctx, user.Email, map[string]interface{}{
		"verification_code": verificationCode,
		"is_verified":       false,
	}); err != nil {
		return nil, apperrors.StorageError(err)
	}

	s.notifier.EnqueueVerification(user.Email, verificationCode)
	logger.CtxInfo(ctx, "Verification re-triggered", "email", user.Email, "user_id", user.ID)

	return dto.NewReceipt(user.Email, fmt.Sprintf("Success, verify new email, code sent to %s", user.Email)), nil
}

// UpdatePortfolioID - административная привязка внешнего портфолио.
// Роут не закрыт аутентификацией, как в исходной системе.
// TODO: закрыть AdminMiddleware после согласования с потребителями API.
func (s *VerificationServiceImpl) UpdatePortfolioID(ctx context.Context, req *dto.UpdatePortfolioIDRequest) (*dto.Receipt, error) {
	if _, err := s.userRepo.UpdateByEmail(ctx, req.Email, map[string]interface{}{
		"portfolio_id": req.PortfolioID,
	}); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotPresent
		}
		return nil, apperrors.StorageError(err)
	}

	logger.CtxInfo(ctx, "Portfolio id updated", "email", req.Email, "portfolio_id", req.PortfolioID)
	return dto.NewReceipt(req.Email, "User portfolio id updated"), nil
}
