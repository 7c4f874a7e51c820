package apperr

import "github.com/gofiber/fiber/v2"

// Kind classifies a domain error so handlers and tests can distinguish
// failure modes without string matching.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindRateLimit
	KindNotFound
	KindExpired
	KindAuth
	KindDelivery
)

// Error is a domain error carrying a client-safe message and HTTP status.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports malformed or missing input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: fiber.StatusBadRequest, Message: message}
}

// Conflict reports a duplicate verified identity.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Status: fiber.StatusBadRequest, Message: message}
}

// RateLimit reports too many pending registration attempts.
func RateLimit(message string) *Error {
	return &Error{Kind: KindRateLimit, Status: fiber.StatusBadRequest, Message: message}
}

// NotFound reports a missing record or token. Status varies per endpoint.
func NotFound(status int, message string) *Error {
	return &Error{Kind: KindNotFound, Status: status, Message: message}
}

// Expired reports a code or token past its expiry.
func Expired(message string) *Error {
	return &Error{Kind: KindExpired, Status: fiber.StatusBadRequest, Message: message}
}

// Auth reports bad credentials. The message is deliberately identical for
// unknown users and wrong passwords.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Status: fiber.StatusBadRequest, Message: message}
}

// Delivery reports a downstream channel failure (email or voice call).
func Delivery(message string) *Error {
	return &Error{Kind: KindDelivery, Status: fiber.StatusInternalServerError, Message: message}
}
