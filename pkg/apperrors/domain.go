package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена аутентификации.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// ErrUserAlreadyExists - email уже занят другим аккаунтом
var ErrUserAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

// ErrUserNotPresent - пользователь не найден (по email или по subject из токена)
var ErrUserNotPresent = New(
	CodeNotFound,
	"auth",
	"User is not present",
	http.StatusNotFound,
)

// ErrInvalidCredentials - неверная пара email/пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Incorrect email or password",
	http.StatusUnauthorized,
)

// ErrEmailNotVerified - логин до подтверждения email запрещен,
// какими бы правильными ни были учетные данные
var ErrEmailNotVerified = New(
	CodeEmailNotVerified,
	"auth",
	"Email not verified",
	http.StatusUnauthorized,
)

// ErrInvalidVerificationCode - присланный код не совпал с ожидаемым.
// 417 сохранен как отличимый статус для несовпадения кода.
var ErrInvalidVerificationCode = New(
	CodeInvalidVerificationCode,
	"auth",
	"Invalid verification code",
	http.StatusExpectationFailed,
)

// ErrTokenAbsent - в запросе нет cookie с токеном
var ErrTokenAbsent = New(
	CodeTokenAbsent,
	"auth",
	"Access token is absent",
	http.StatusUnauthorized,
)

// ErrIncorrectTokenFormat - подпись или структура токена невалидны
var ErrIncorrectTokenFormat = New(
	CodeIncorrectTokenFormat,
	"auth",
	"Incorrect token format",
	http.StatusUnauthorized,
)

// ErrTokenExpired - срок действия токена истек (или exp отсутствует)
var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Access token expired",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - не-админ пытается выполнить админ-действие.
// Отличимая 403, а не переиспользованная "не найдено".
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
