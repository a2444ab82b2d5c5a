package handlers

import (
	"net/http"

	"users_backend/internal/auth"
	"users_backend/internal/middleware"
	"users_backend/internal/services"
	"users_backend/internal/services/dto"
	"users_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	*BaseHandler
	authService         services.AuthService
	verificationService services.VerificationService
}

func NewAuthHandler(base *BaseHandler, authService services.AuthService, verificationService services.VerificationService) *AuthHandler {
	return &AuthHandler{
		BaseHandler:         base,
		authService:         authService,
		verificationService: verificationService,
	}
}

// RegisterRoutes регистрирует все маршруты аутентификации под /auth.
// authMW/adminMW передаются снаружи: страж ходит в репозиторий.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/verify_email", h.VerifyEmail)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		// Привязка портфолио не закрыта стражем, как в исходной системе
		authGroup.POST("/update_portfolio_id", h.UpdatePortfolioID)
	}

	protected := rg.Group("/auth")
	protected.Use(authMW)
	{
		protected.POST("/delete_user", h.DeleteUser)
		protected.GET("/me", h.Me)
		protected.POST("/verify_password", h.VerifyPassword)
		protected.POST("/reset_password", h.ResetPassword)
		protected.POST("/verify_new_email", h.VerifyNewEmail)
		protected.POST("/reset_email", h.ResetEmail)
	}

	admin := rg.Group("/auth")
	admin.Use(authMW, adminMW)
	{
		admin.GET("/all", h.All)
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	receipt, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receipt)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	receipt, err := h.authService.VerifyEmail(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, receipt)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	accessToken, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, accessToken)
	c.JSON(http.StatusOK, dto.LoginResponse{AccessToken: accessToken})
}

// Logout идемпотентен и не ходит в хранилище, только чистит cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.NewReceipt("", "Successfully logout"))
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	receipt, err := h.authService.DeleteUser(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, receipt)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) All(c *gin.Context) {
	users, err := h.authService.ListAll(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) VerifyPassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	var req dto.VerifyPasswordRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	receipt, err := h.verificationService.VerifyPassword(c.Request.Context(), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	receipt, err := h.verificationService.ResetPassword(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *AuthHandler) VerifyNewEmail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	var req dto.VerifyNewEmailRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	receipt, err := h.verificationService.VerifyNewEmail(c.Request.Context(), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *AuthHandler) ResetEmail(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		h.HandleServiceError(c, apperrors.ErrTokenAbsent)
		return
	}

	receipt, err := h.verificationService.ResetEmail(c.Request.Context(), user)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

func (h *AuthHandler) UpdatePortfolioID(c *gin.Context) {
	var req dto.UpdatePortfolioIDRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	receipt, err := h.verificationService.UpdatePortfolioID(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// setSessionCookie ставит HTTP-only cookie с токеном сессии.
// Время жизни cookie совпадает со сроком жизни токена.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.AccessTokenCookie, token, int(auth.TokenTTL.Seconds()), "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
}
