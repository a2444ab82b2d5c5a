package repositories

import (
	"context"
	"errors"
	"fmt"

	"users_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository - узкий контракт над хранилищем аккаунтов.
// Каждый вызов - самостоятельная единица работы, транзакций
// на несколько вызовов здесь нет.
//
// Ошибки хранилища НЕ глотаются: "не найдено" - это ErrUserNotFound,
// все остальное возвращается как есть, чтобы вызывающий код мог
// отличить отсутствие записи от сломанного хранилища.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateByEmail(ctx context.Context, email string, fields map[string]interface{}) (*models.User, error)
	SetVerified(ctx context.Context, email string, verified bool) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]models.User, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create вставляет нового пользователя. Гонка "проверили-вставили" закрыта
// уникальным индексом по email: конфликт приходит из БД как ErrDuplicatedKey
// (требуется gorm.Config{TranslateError: true}).
func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// UpdateByEmail - частичное обновление по email.
// Возвращает обновленную строку или ErrUserNotFound, если никто не совпал.
func (r *UserRepositoryImpl) UpdateByEmail(ctx context.Context, email string, fields map[string]interface{}) (*models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("update user by email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	// Перечитываем строку: Updates не возвращает ее.
	// Если email менялся, ищем по новому значению.
	lookupEmail := email
	if newEmail, ok := fields["email"].(string); ok {
		lookupEmail = newEmail
	}
	return r.FindByEmail(ctx, lookupEmail)
}

func (r *UserRepositoryImpl) SetVerified(ctx context.Context, email string, verified bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("is_verified", verified)
	if result.Error != nil {
		return fmt.Errorf("set verified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete удаляет строку окончательно, мягкого удаления нет
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	return nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find all users: %w", err)
	}
	return users, nil
}
