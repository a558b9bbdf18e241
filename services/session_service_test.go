package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/packrat-app/packrat/models"
)

// sessionApp exposes the session service through two routes so the
// cookie round-trips through fiber the way it does in production.
func sessionApp(svc *SessionService) *fiber.App {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		return svc.CreateSession(c, &models.UserSession{
			UserID:   42,
			Email:    "alice@example.com",
			Username: "alice",
		})
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		session, err := svc.GetSession(c)
		if err != nil {
			return c.SendStatus(http.StatusUnauthorized)
		}
		return c.JSON(session)
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	svc := NewSessionService("test-signing-key", false)
	app := sessionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookie := sessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	var session models.UserSession
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("failed to decode session: %v", err)
	}
	if session.UserID != 42 || session.Username != "alice" {
		t.Errorf("session = %+v, want user 42 alice", session)
	}
	if session.ExpiresAt.IsZero() {
		t.Error("session has no expiry")
	}
}

func TestSession_TamperedCookieRejected(t *testing.T) {
	svc := NewSessionService("test-signing-key", false)
	app := sessionApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookie := sessionCookie(t, resp)

	// Flip one character of the encoded value.
	value := []byte(cookie.Value)
	if value[0] == 'A' {
		value[0] = 'B'
	} else {
		value[0] = 'A'
	}
	cookie.Value = string(value)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSession_WrongKeyRejected(t *testing.T) {
	issuer := NewSessionService("key-one", false)
	verifier := NewSessionService("key-two", false)

	resp, err := sessionApp(issuer).Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookie := sessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cookie)
	resp, err = sessionApp(verifier).Test(req)
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestSession_MissingCookie(t *testing.T) {
	svc := NewSessionService("test-signing-key", false)

	resp, err := sessionApp(svc).Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	if err != nil {
		t.Fatalf("me request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}
