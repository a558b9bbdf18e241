package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	dbmodels "github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/database/repositories"
	"github.com/packrat-app/packrat/middleware"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/services"
)

type stubUserRepo struct {
	user *dbmodels.User
}

func (s *stubUserRepo) Create(context.Context, *dbmodels.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (*dbmodels.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*dbmodels.User, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubUserRepo) List(context.Context) ([]*dbmodels.User, error) { return nil, nil }

func (s *stubUserRepo) AddCoins(context.Context, int64, int64) error { return nil }

func (s *stubUserRepo) CollectDaily(context.Context, int64, int64, time.Time) error { return nil }

type stubCardRepo struct {
	count int
}

func (s *stubCardRepo) GetByID(context.Context, int64) (*dbmodels.Card, error) {
	return nil, repositories.ErrNotFound
}

func (s *stubCardRepo) GetByOwner(context.Context, int64) ([]*dbmodels.Card, error) {
	return nil, nil
}

func (s *stubCardRepo) CountByOwner(context.Context, int64) (int, error) { return s.count, nil }

type stubActivityRepo struct {
	activities []*dbmodels.Activity
}

func (s *stubActivityRepo) Feed(context.Context, int64, int, int) ([]*dbmodels.Activity, int64, error) {
	return nil, 0, nil
}

func (s *stubActivityRepo) ListByUser(context.Context, int64, int) ([]*dbmodels.Activity, error) {
	return s.activities, nil
}

func newUserTestApp(webApp *WebApp) *fiber.App {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		return webApp.Sessions.CreateSession(c, &models.UserSession{
			UserID:   1,
			Email:    "alice@example.com",
			Username: "alice",
		})
	})
	optional := middleware.OptionalAuth(webApp.Sessions)
	app.Get("/api/users/:id", optional, GetUser(webApp))
	app.Get("/api/users/:id/activity", optional, UserActivity(webApp))
	return app
}

func decodeUserData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope.Data
}

func TestGetUser_CoinsOnlyForSelf(t *testing.T) {
	webApp := &WebApp{
		Repos: &models.Repositories{
			User: &stubUserRepo{user: &dbmodels.User{ID: 1, Email: "alice@example.com", Username: "alice", Coins: 300}},
			Card: &stubCardRepo{count: 4},
		},
		Sessions: services.NewSessionService("test-key", false),
	}
	app := newUserTestApp(webApp)

	// Anonymous view: card count is public, coins are not.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/1", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	data := decodeUserData(t, resp)
	if _, ok := data["coins"]; ok {
		t.Error("anonymous view exposes coins")
	}
	if got, ok := data["card_count"]; !ok || got.(float64) != 4 {
		t.Errorf("card_count = %v, want 4", got)
	}

	// Self view: coins included.
	loginResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	for _, cookie := range loginResp.Cookies() {
		req.AddCookie(cookie)
	}
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	data = decodeUserData(t, resp)
	if got, ok := data["coins"]; !ok || got.(float64) != 300 {
		t.Errorf("self view coins = %v, want 300", got)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	webApp := &WebApp{
		Repos: &models.Repositories{
			User: &stubUserRepo{},
			Card: &stubCardRepo{},
		},
		Sessions: services.NewSessionService("test-key", false),
	}
	app := newUserTestApp(webApp)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/9", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestUserActivity(t *testing.T) {
	webApp := &WebApp{
		Repos: &models.Repositories{
			User: &stubUserRepo{},
			Card: &stubCardRepo{},
			Activity: &stubActivityRepo{activities: []*dbmodels.Activity{
				{ID: 1, UserID: 1, Type: dbmodels.ActivityPackOpened, RefID: 3},
			}},
		},
		Sessions: services.NewSessionService("test-key", false),
	}
	app := newUserTestApp(webApp)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/1/activity", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0]["type"] != string(dbmodels.ActivityPackOpened) {
		t.Errorf("activity = %v, want one pack_opened entry", envelope.Data)
	}
}
