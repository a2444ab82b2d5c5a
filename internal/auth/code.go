package auth

import (
	"crypto/rand"
	"math/big"
)

// Алфавит кодов верификации: латиница в обоих регистрах + цифры (62 символа).
// Сравнение кода при проверке чувствительно к регистру.
const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultCodeLength - длина кода по умолчанию
const DefaultCodeLength = 6

// GenerateVerificationCode генерирует случайный код верификации.
// Источник случайности криптографический: код защищает смену
// пароля и email, угадываемый код означает захват аккаунта.
func GenerateVerificationCode(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}

	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}

	return string(code), nil
}
