package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Срок жизни токена фиксирован: 24 часа, не конфигурируется per-call
const TokenTTL = 24 * time.Hour

var (
	ErrTokenExpired   = errors.New("token expired or has no expiry")
	ErrTokenMalformed = errors.New("token signature or structure invalid")
	ErrTokenNoSubject = errors.New("token has no subject")
)

// Ключ подписи процесса. Устанавливается один раз на старте,
// валидность токенов не меняется в течение жизни процесса.
var secretKey []byte

// Init устанавливает ключ подписи токенов
func Init(secret string) {
	secretKey = []byte(secret)
}

// GenerateToken выпускает подписанный HS256 токен с sub = id пользователя
// и exp = now + TokenTTL
func GenerateToken(userID uint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
	})

	return token.SignedString(secretKey)
}

// ParseToken проверяет подпись и срок действия токена и возвращает
// id пользователя из subject.
// Ошибки различимы: протухший токен, битый токен, отсутствующий subject.
func ParseToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenMalformed
	}

	if !token.Valid {
		return 0, ErrTokenMalformed
	}

	// Токен без exp считается истекшим
	if claims.ExpiresAt == nil {
		return 0, ErrTokenExpired
	}

	if claims.Subject == "" {
		return 0, ErrTokenNoSubject
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenNoSubject
	}

	return uint(userID), nil
}
