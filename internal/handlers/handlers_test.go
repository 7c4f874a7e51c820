package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/authd/internal/config"
	"github.com/example/authd/internal/database"
	"github.com/example/authd/internal/middleware"
	"github.com/example/authd/internal/models"
	"github.com/example/authd/internal/routes"
	"github.com/example/authd/internal/utils"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	fail bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type placedCall struct {
	to  string
	say string
}

type fakeVoice struct {
	calls []placedCall
	fail  bool
}

func (v *fakeVoice) Call(to, say string) error {
	if v.fail {
		return errors.New("twilio unreachable")
	}
	v.calls = append(v.calls, placedCall{to: to, say: say})
	return nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	cfg    *config.Config
	mailer *fakeMailer
	voice  *fakeVoice
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:    "test-secret",
		TokenExpires: time.Hour,
		FrontendURL:  "http://localhost:5173",
	}

	mailer := &fakeMailer{}
	voice := &fakeVoice{}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	routes.Register(app, db, cfg, mailer, voice)

	return &testEnv{app: app, db: db, cfg: cfg, mailer: mailer, voice: voice}
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		Email           string `json:"email"`
		Phone           string `json:"phone"`
		AccountVerified bool   `json:"account_verified"`
	} `json:"user"`
}

func (e *testEnv) request(t *testing.T, method, path string, body any, cookies ...*http.Cookie) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return resp, parsed
}

func (e *testEnv) seedUser(t *testing.T, user models.User) models.User {
	t.Helper()

	if user.PasswordHash == "" {
		hash, err := utils.HashPassword("s3cret-pass")
		require.NoError(t, err)
		user.PasswordHash = hash
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// pendingCode reads the verification code the flow persisted for the newest
// unverified record, standing in for the code the user receives out of band.
func (e *testEnv) pendingCode(t *testing.T, email string) string {
	t.Helper()

	var user models.User
	require.NoError(t, e.db.
		Where("email = ? AND account_verified = ?", email, false).
		Order("created_at desc").
		First(&user).Error)
	require.NotEmpty(t, user.VerificationCode)
	return user.VerificationCode
}
