package dto

import "time"

// SignupRequest - запрос регистрации
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// VerifyEmailRequest - запрос подтверждения email по коду
type VerifyEmailRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse - ответ с токеном сессии
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// VerifyPasswordRequest - смена пароля по коду верификации
type VerifyPasswordRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
	PasswordNew      string `json:"password_new" validate:"required,min=8"`
}

// VerifyNewEmailRequest - смена email по коду верификации
type VerifyNewEmailRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
	EmailNew         string `json:"email_new" validate:"required,email"`
}

// UpdatePortfolioIDRequest - привязка внешнего портфолио к аккаунту
type UpdatePortfolioIDRequest struct {
	Email       string `json:"email" validate:"required,email"`
	PortfolioID int64  `json:"portfolio_id" validate:"required"`
}

// Receipt - стандартная квитанция об операции: email, сообщение, метка времени
type Receipt struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// NewReceipt строит квитанцию с текущим временем в UTC
func NewReceipt(email, message string) *Receipt {
	return &Receipt{
		Email:   email,
		Message: message,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
}
