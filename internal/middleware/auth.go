package middleware

import (
	"users_backend/internal/auth"
	"users_backend/internal/logger"
	"users_backend/internal/models"
	"users_backend/internal/repositories"
	"users_backend/pkg/apperrors"
	"users_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie - имя cookie с токеном сессии
const AccessTokenCookie = "access_token"

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPCode, apperrors.ErrorResponse{Error: appErr})
}

// AuthMiddleware - страж доступа перед защищенными операциями:
// достает токен из cookie, проверяет подпись и срок действия,
// резолвит subject в живой аккаунт и кладет его в контекст запроса.
func AuthMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AccessTokenCookie)
		if err != nil || token == "" {
			abortWithError(c, apperrors.ErrTokenAbsent)
			return
		}

		userID, err := auth.ParseToken(token)
		if err != nil {
			switch err {
			case auth.ErrTokenExpired:
				abortWithError(c, apperrors.ErrTokenExpired)
			case auth.ErrTokenNoSubject:
				abortWithError(c, apperrors.ErrUserNotPresent)
			default:
				abortWithError(c, apperrors.ErrIncorrectTokenFormat)
			}
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUserNotFound) {
				abortWithError(c, apperrors.ErrUserNotPresent)
			} else {
				logger.CtxWithError(c.Request.Context(), "Access guard: storage failure", err, "user_id", userID)
				abortWithError(c, apperrors.StorageError(err))
			}
			return
		}

		// Прокидываем user_id в контекст для логгера
		ctx := logger.WithUserID(c.Request.Context(), user.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextkeys.CurrentUserKey.String(), user)
		c.Next()
	}
}

// AdminMiddleware - проверка прав администратора.
// Ставится ПОСЛЕ AuthMiddleware. Не-админ получает отличимую 403,
// а не переиспользованную "не найдено".
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, apperrors.ErrTokenAbsent)
			return
		}

		if !user.IsAdmin {
			logger.CtxWarn(c.Request.Context(), "Admin route rejected", "email", user.Email)
			abortWithError(c, apperrors.ErrInsufficientPermissions)
			return
		}

		c.Next()
	}
}

// CurrentUser извлекает аккаунт текущего запроса из контекста.
// Возвращает nil, если AuthMiddleware не отработал.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(contextkeys.CurrentUserKey.String())
	if !exists {
		return nil
	}

	user, ok := val.(*models.User)
	if !ok {
		return nil
	}

	return user
}
