package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/authd/internal/apperr"
	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/models"
	"github.com/example/authd/internal/services"
	"github.com/example/authd/internal/utils"
)

const resetTokenTTL = 15 * time.Minute

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer) *PasswordResetHandler {
	return &PasswordResetHandler{db: db, cfg: cfg, mailer: mailer}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword generates a reset token, stores its hash and emails the
// plaintext link. Only the hash is persisted; the link is the sole bearer of
// the token.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	if req.Email == "" {
		return apperr.Validation("Email is required")
	}

	var user models.User
	if err := h.db.Where("email = ? AND account_verified = ?", req.Email, true).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound(fiber.StatusBadRequest, "User not found")
		}
		return err
	}

	plain, digest, err := utils.GenerateResetToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate reset token")
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	user.ResetPasswordTokenHash = digest
	user.ResetPasswordExpiresAt = &expiresAt
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/password/reset/%s", h.cfg.FrontendURL, plain)
	if err := h.mailer.Send(user.Email, "Reset your password", services.ResetEmail(resetURL)); err != nil {
		// Clear the half-applied reset state before reporting the failure.
		user.ResetPasswordTokenHash = ""
		user.ResetPasswordExpiresAt = nil
		h.db.Save(&user)
		return apperr.Delivery("Cannot send reset password token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Email sent to %s successfully", user.Email),
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ResetPassword consumes a reset token from the emailed link and sets a new
// password.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	digest := utils.HashToken(c.Params("token"))

	var user models.User
	if err := h.db.Where("reset_password_token_hash = ?", digest).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.Validation("Reset password token is invalid or has been expired")
		}
		return err
	}

	if user.ResetPasswordExpiresAt == nil || time.Now().After(*user.ResetPasswordExpiresAt) {
		return apperr.Expired("Reset password token is invalid or has been expired")
	}

	if req.Password == "" || req.ConfirmPassword == "" {
		return apperr.Validation("Password and confirm password are required")
	}
	if req.Password != req.ConfirmPassword {
		return apperr.Validation("Password and confirm password do not match")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user.PasswordHash = passwordHash
	user.ResetPasswordTokenHash = ""
	user.ResetPasswordExpiresAt = nil
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return sendToken(c, h.cfg, &user, fiber.StatusOK, "Reset password successfully")
}
