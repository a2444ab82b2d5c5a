package repositories

import (
	"context"
	"sort"
	"sync"

	"users_backend/internal/models"
)

// MemoryUserRepository - in-memory реализация UserRepository.
// Используется в тестах и локальной разработке без БД.
// Семантика повторяет gorm-реализацию, включая конфликт по email.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*models.User
	nextID uint
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrUserAlreadyExists
		}
	}

	user.ID = r.nextID
	r.nextID++

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) UpdateByEmail(ctx context.Context, email string, fields map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email != email {
			continue
		}

		// Ключи - имена колонок, как в gorm-реализации
		for field, value := range fields {
			switch field {
			case "email":
				u.Email = value.(string)
			case "password_hash":
				u.PasswordHash = value.([]byte)
			case "verification_code":
				u.VerificationCode = value.(string)
			case "is_verified":
				u.IsVerified = value.(bool)
			case "portfolio_id":
				id := value.(int64)
				u.PortfolioID = &id
			}
		}

		clone := *u
		return &clone, nil
	}

	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) SetVerified(ctx context.Context, email string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			u.IsVerified = verified
			return nil
		}
	}
	return ErrUserNotFound
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
