package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/models"
)

const (
	SessionCookieName = "packrat_session"
	sessionTTL        = 24 * time.Hour
)

// SessionService issues and validates HMAC-SHA256 signed session
// cookies. The cookie value is the JSON session payload followed by a
// 32-byte signature, base64url encoded.
type SessionService struct {
	key    []byte
	secure bool
}

func NewSessionService(sessionKey string, secure bool) *SessionService {
	return &SessionService{
		key:    []byte(sessionKey),
		secure: secure,
	}
}

func (s *SessionService) CreateSession(c *fiber.Ctx, session *models.UserSession) error {
	session.ExpiresAt = time.Now().Add(sessionTTL)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	signed, err := s.signData(data)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	slog.Info("Session created",
		slog.Int64("user_id", session.UserID),
		slog.String("email", session.Email))
	return nil
}

func (s *SessionService) GetSession(c *fiber.Ctx) (*models.UserSession, error) {
	cookie := c.Cookies(SessionCookieName)
	if cookie == "" {
		return nil, fmt.Errorf("no session cookie found")
	}

	data, err := s.verifyAndDecodeData(cookie)
	if err != nil {
		return nil, fmt.Errorf("invalid session signature: %w", err)
	}

	var session models.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		s.DestroySession(c)
		return nil, fmt.Errorf("session expired")
	}
	return &session, nil
}

func (s *SessionService) DestroySession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   s.secure,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

func (s *SessionService) signData(data []byte) (string, error) {
	if len(s.key) == 0 {
		return "", fmt.Errorf("session key not configured")
	}

	h := hmac.New(sha256.New, s.key)
	h.Write(data)
	combined := append(data, h.Sum(nil)...)
	return base64.URLEncoding.EncodeToString(combined), nil
}

func (s *SessionService) verifyAndDecodeData(encoded string) ([]byte, error) {
	if len(s.key) == 0 {
		return nil, fmt.Errorf("session key not configured")
	}

	combined, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}
	if len(combined) < sha256.Size {
		return nil, fmt.Errorf("invalid data length")
	}

	data := combined[:len(combined)-sha256.Size]
	received := combined[len(combined)-sha256.Size:]

	h := hmac.New(sha256.New, s.key)
	h.Write(data)
	if !hmac.Equal(received, h.Sum(nil)) {
		return nil, fmt.Errorf("signature verification failed")
	}
	return data, nil
}
