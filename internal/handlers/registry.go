package handlers

// AppHandlers собирает все HTTP обработчики приложения
type AppHandlers struct {
	AuthHandler *AuthHandler
}
