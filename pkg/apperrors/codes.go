package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError  ErrorCode = "INTERNAL_ERROR"
	CodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	CodeUnknownError   ErrorCode = "UNKNOWN_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Аутентификация и Авторизация (они сквозные)
	CodeUnauthorized            ErrorCode = "UNAUTHORIZED"
	CodeForbidden               ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials      ErrorCode = "INVALID_CREDENTIALS"
	CodeEmailNotVerified        ErrorCode = "EMAIL_NOT_VERIFIED"
	CodeInvalidVerificationCode ErrorCode = "INVALID_VERIFICATION_CODE"
	CodeTokenAbsent             ErrorCode = "TOKEN_ABSENT"
	CodeIncorrectTokenFormat    ErrorCode = "INCORRECT_TOKEN_FORMAT"
	CodeTokenExpired            ErrorCode = "TOKEN_EXPIRED"
)
