package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/authd/internal/apperr"
	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/models"
	"github.com/example/authd/internal/utils"
)

const userContextKey = "currentUser"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// AuthMiddleware validates the session cookie and loads the authenticated
// user into context. Signature and expiry failures are normalized to a
// generic 400 so the response never reveals why the token was rejected.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookieName)
		if cookie == "" {
			return apperr.Auth("User is not authenticated")
		}

		userID, err := utils.ParseToken(cfg.JWTSecret, cookie)
		if err != nil || userID == uuid.Nil {
			return apperr.Auth("Invalid session token, try again")
		}

		var user models.User
		if err := db.Where("id = ? AND account_verified = ?", userID, true).
			First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		c.Locals(userContextKey, &user)
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated user from context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok
}
