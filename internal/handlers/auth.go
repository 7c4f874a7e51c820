package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/authd/internal/apperr"
	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/middleware"
	"github.com/example/authd/internal/models"
	"github.com/example/authd/internal/services"
	"github.com/example/authd/internal/utils"
)

const (
	verificationCodeTTL = 10 * time.Minute
	maxPendingAttempts  = 3
)

var phonePattern = regexp.MustCompile(`^(?:\+91|091)\d{10}$`)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer services.Mailer
	voice  services.VoiceCaller
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, mailer services.Mailer, voice services.VoiceCaller) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mailer: mailer, voice: voice}
}

type registerRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Password           string `json:"password"`
	VerificationMethod string `json:"verificationMethod"`
}

// Register creates an unverified account and sends a verification code over
// the chosen channel.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" || req.VerificationMethod == "" {
		return apperr.Validation("All fields are required")
	}

	if !phonePattern.MatchString(req.Phone) {
		return apperr.Validation("Invalid phone number")
	}

	if req.VerificationMethod != "email" && req.VerificationMethod != "phone" {
		return apperr.Validation("Invalid verification method")
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	expiresAt := time.Now().Add(verificationCodeTTL)
	user := models.User{
		Name:                      req.Name,
		Email:                     req.Email,
		Phone:                     req.Phone,
		PasswordHash:              passwordHash,
		AccountVerified:           false,
		VerificationCode:          code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	// Dedup check and create run in one transaction so concurrent
	// registrations for the same identity cannot slip past the attempt cap.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var verified models.User
		err := tx.Where("(email = ? OR phone = ?) AND account_verified = ?", req.Email, req.Phone, true).
			First(&verified).Error
		if err == nil {
			return apperr.Conflict("Phone or email is already used")
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		var pending int64
		if err := tx.Model(&models.User{}).
			Where("(email = ? OR phone = ?) AND account_verified = ?", req.Email, req.Phone, false).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending >= maxPendingAttempts {
			return apperr.RateLimit("You have exceeded the maximum number of attempts (3). Please try again after an hour")
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		return err
	}

	message, err := h.sendVerificationCode(req.VerificationMethod, code, req.Name, req.Email, req.Phone)
	if err != nil {
		// Delivery failed: roll the registration back so the attempt does
		// not count against the pending-attempt cap.
		h.db.Delete(&user)
		return apperr.Delivery("Verification code failed to send")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

func (h *AuthHandler) sendVerificationCode(method, code, name, email, phone string) (string, error) {
	switch method {
	case "email":
		body := services.VerificationEmail(code)
		if err := h.mailer.Send(email, "Your verification code", body); err != nil {
			return "", err
		}
		return fmt.Sprintf("Verification email successfully sent to %s", name), nil
	case "phone":
		say := "Your verification code is " + utils.SpaceDigits(code)
		if err := h.voice.Call(phone, say); err != nil {
			return "", err
		}
		return "OTP sent", nil
	default:
		return "", fmt.Errorf("unknown verification method %q", method)
	}
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTP validates a submitted code against the newest pending
// registration and finalizes the account.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	if !phonePattern.MatchString(req.Phone) {
		return apperr.Validation("Invalid phone number")
	}

	// Select the newest pending attempt and clear out the older ones
	// atomically. The cleanup commits even if the code below fails to match.
	var user models.User
	err := h.db.Transaction(func(tx *gorm.DB) error {
		var entries []models.User
		if err := tx.Where("(email = ? OR phone = ?) AND account_verified = ?", req.Email, req.Phone, false).
			Order("created_at desc").
			Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return apperr.NotFound(fiber.StatusNotFound, "No unverified user found")
		}

		user = entries[0]
		if len(entries) > 1 {
			if err := tx.Where("id <> ? AND (email = ? OR phone = ?) AND account_verified = ?",
				user.ID, req.Email, req.Phone, false).
				Delete(&models.User{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if user.VerificationCode == "" {
		return apperr.Validation("User does not have a verification code")
	}

	submitted, err := strconv.Atoi(req.OTP)
	if err != nil {
		return apperr.Validation("Invalid OTP")
	}
	stored, err := strconv.Atoi(user.VerificationCode)
	if err != nil || submitted != stored {
		return apperr.Validation("Invalid OTP")
	}

	if user.VerificationCodeExpiresAt == nil || time.Now().After(*user.VerificationCodeExpiresAt) {
		return apperr.Expired("OTP expired")
	}

	user.AccountVerified = true
	user.VerificationCode = ""
	user.VerificationCodeExpiresAt = nil
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return sendToken(c, h.cfg, &user, fiber.StatusOK, "Account verified")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates a verified user by email and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return apperr.Validation("Email and password are required")
	}

	// The same message covers both an unknown email and a wrong password so
	// the response does not reveal which one failed.
	var user models.User
	if err := h.db.Where("email = ? AND account_verified = ?", req.Email, true).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.Auth("Invalid email and password")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return apperr.Auth("Invalid email and password")
	}

	return sendToken(c, h.cfg, &user, fiber.StatusOK, "User logged in successfully")
}

// Logout overwrites the session cookie with an expired empty value. Tokens
// have no server-side revocation list, so nothing else needs to happen.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now(),
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user loaded by the session middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return apperr.Auth("User is not authenticated")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return apperr.Validation("Password must have at least 8 characters")
	}
	if len(password) > 32 {
		return apperr.Validation("Password cannot have more than 32 characters")
	}
	return nil
}

// sendToken issues a signed session token, sets it as an http-only cookie and
// echoes it in the JSON body along with the user.
func sendToken(c *fiber.Ctx, cfg *config.Config, user *models.User, status int, message string) error {
	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(cfg.TokenExpires),
		HTTPOnly: true,
	})

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"user":    user,
		"token":   token,
	})
}
