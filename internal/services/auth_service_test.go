package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users_backend/internal/auth"
	"users_backend/internal/models"
	"users_backend/internal/repositories"
	"users_backend/internal/services"
	"users_backend/internal/services/dto"
	"users_backend/pkg/apperrors"
)

// recordingNotifier складывает уведомления в память вместо отправки
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentCode
}

type sentCode struct {
	To   string
	Code string
}

func (n *recordingNotifier) EnqueueVerification(to string, code string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentCode{To: to, Code: code})
}

func (n *recordingNotifier) all() []sentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentCode(nil), n.sent...)
}

func init() {
	auth.Init("test-secret-key")
}

// seedUser создает пользователя напрямую через репозиторий
func seedUser(t *testing.T, repo repositories.UserRepository, email, password, code string, verified bool) *models.User {
	t.Helper()

	passwordHash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:            email,
		PasswordHash:     passwordHash,
		VerificationCode: code,
		IsVerified:       verified,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestAuthService_SignUp(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	notifier := &recordingNotifier{}
	svc := services.NewAuthService(repo, notifier)
	ctx := context.Background()

	receipt, err := svc.SignUp(ctx, &dto.SignupRequest{
		Email:    "new@example.com",
		Password: "strong-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", receipt.Email)
	assert.Equal(t, "User created successfully. Verification code sent to email.", receipt.Message)
	assert.NotEmpty(t, receipt.Time)

	// Аккаунт создан неверифицированным, пароль захеширован
	user, err := repo.FindByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Len(t, user.VerificationCode, auth.DefaultCodeLength)
	assert.True(t, auth.CheckPasswordHash("strong-password", user.PasswordHash))

	// Код ушел одним уведомлением и совпадает с сохраненным
	sent := notifier.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "new@example.com", sent[0].To)
	assert.Equal(t, user.VerificationCode, sent[0].Code)
}

func TestAuthService_SignUp_WeakPassword(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	notifier := &recordingNotifier{}
	svc := services.NewAuthService(repo, notifier)

	// Сложность пароля проверяется и на уровне сервиса,
	// не только валидацией DTO
	_, err := svc.SignUp(context.Background(), &dto.SignupRequest{
		Email:    "new@example.com",
		Password: "short",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// Аккаунт не создан, ничего не отправлено
	_, err = repo.FindByEmail(context.Background(), "new@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	assert.Empty(t, notifier.all())
}

func TestAuthService_SignUp_Duplicate(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	notifier := &recordingNotifier{}
	svc := services.NewAuthService(repo, notifier)
	ctx := context.Background()

	seedUser(t, repo, "taken@example.com", "password-one", "ABC123", true)

	_, err := svc.SignUp(ctx, &dto.SignupRequest{
		Email:    "taken@example.com",
		Password: "password-two",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	// Ничего не отправлено
	assert.Empty(t, notifier.all())
}

func TestAuthService_VerifyEmail(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	seedUser(t, repo, "user@example.com", "strong-password", "XyZ789", false)

	receipt, err := svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{
		Email:            "user@example.com",
		VerificationCode: "XyZ789",
	})
	require.NoError(t, err)
	assert.Equal(t, "Email successfully verified", receipt.Message)

	user, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
}

func TestAuthService_VerifyEmail_WrongCode(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	seedUser(t, repo, "user@example.com", "strong-password", "XyZ789", false)

	// Сравнение с учетом регистра
	_, err := svc.VerifyEmail(ctx, &dto.VerifyEmailRequest{
		Email:            "user@example.com",
		VerificationCode: "xyz789",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)

	// Состояние аккаунта не изменилось
	user, err := repo.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
}

func TestAuthService_VerifyEmail_UnknownUser(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})

	_, err := svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{
		Email:            "missing@example.com",
		VerificationCode: "ABC123",
	})
	assert.ErrorIs(t, err, apperrors.ErrUserNotPresent)
}

func TestAuthService_Login(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	seeded := seedUser(t, repo, "user@example.com", "strong-password", "ABC123", true)

	token, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "user@example.com",
		Password: "strong-password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, userID)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	seedUser(t, repo, "verified@example.com", "strong-password", "ABC123", true)
	seedUser(t, repo, "pending@example.com", "strong-password", "DEF456", false)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"unknown user", "missing@example.com", "strong-password", apperrors.ErrInvalidCredentials},
		{"wrong password", "verified@example.com", "wrong-password", apperrors.ErrInvalidCredentials},
		{"email not verified", "pending@example.com", "strong-password", apperrors.ErrEmailNotVerified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &dto.LoginRequest{Email: tt.email, Password: tt.password})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_DeleteUser(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	user := seedUser(t, repo, "user@example.com", "strong-password", "ABC123", true)

	receipt, err := svc.DeleteUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "User deleted", receipt.Message)

	_, err = repo.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestAuthService_ListAll(t *testing.T) {
	repo := repositories.NewMemoryUserRepository()
	svc := services.NewAuthService(repo, &recordingNotifier{})
	ctx := context.Background()

	seedUser(t, repo, "first@example.com", "strong-password", "ABC123", true)
	seedUser(t, repo, "second@example.com", "strong-password", "DEF456", false)

	users, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "first@example.com", users[0].Email)
	assert.Equal(t, "second@example.com", users[1].Email)
}
