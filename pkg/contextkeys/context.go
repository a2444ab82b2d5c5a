package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// CurrentUserKey - ключ, по которому AuthMiddleware кладет *models.User в gin.Context
const CurrentUserKey = contextKey("current_user")

// String нужен, т.к. gin.Context.Set принимает строковый ключ
func (k contextKey) String() string {
	return string(k)
}
