package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVerificationCode_Length(t *testing.T) {
	for _, length := range []int{1, 6, 12, 32} {
		code, err := GenerateVerificationCode(length)
		assert.NoError(t, err)
		assert.Len(t, code, length)
	}
}

func TestGenerateVerificationCode_DefaultLength(t *testing.T) {
	// Невалидная длина откатывается на длину по умолчанию
	for _, length := range []int{0, -5} {
		code, err := GenerateVerificationCode(length)
		assert.NoError(t, err)
		assert.Len(t, code, DefaultCodeLength)
	}
}

func TestGenerateVerificationCode_Alphabet(t *testing.T) {
	// Каждый символ кода из 62-символьного алфавита
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode(DefaultCodeLength)
		assert.NoError(t, err)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r),
				"символ %q вне алфавита в коде %q", r, code)
		}
	}
}

func TestGenerateVerificationCode_Distinct(t *testing.T) {
	// Коллизии на 6 символах из 62^6 вариантов на сотне генераций
	// практически исключены
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateVerificationCode(DefaultCodeLength)
		assert.NoError(t, err)
		assert.False(t, seen[code], "код %q сгенерирован повторно", code)
		seen[code] = true
	}
}
