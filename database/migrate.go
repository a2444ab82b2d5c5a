package database

import (
	"fmt"

	"users_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей.
// Уникальный индекс по email создается здесь же - на него
// опирается обработка конфликта при регистрации.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	return nil
}
