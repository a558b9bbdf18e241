package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/mock/gomock"

	dbmodels "github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/models"
	"github.com/packrat-app/packrat/trading"
	"github.com/packrat-app/packrat/trading/mock"
)

// newTradeApp wires the trade routes over a mocked repository with the
// given session injected, bypassing cookie auth.
func newTradeApp(repo trading.Repository, session *models.UserSession) *fiber.App {
	webApp := &WebApp{Trades: trading.NewService(repo)}
	app := fiber.New()

	inject := func(c *fiber.Ctx) error {
		if session != nil {
			c.Locals("user", session)
		}
		return c.Next()
	}

	app.Post("/api/trade", inject, CreateTrade(webApp))
	app.Get("/api/trade/:tradeId", inject, GetPendingTrade(webApp))
	app.Put("/api/trade/accept/:tradeId", inject, AcceptTrade(webApp))
	app.Put("/api/trade/reject/:tradeId", inject, RejectTrade(webApp))
	return app
}

func bobSession() *models.UserSession {
	return &models.UserSession{UserID: 2, Email: "bob@example.com", Username: "bob"}
}

func offeredTrade() *dbmodels.Trade {
	return &dbmodels.Trade{
		ID:         7,
		TradeID:    "t-7",
		SenderID:   1,
		ReceiverID: 2,
		Status:     dbmodels.TradePending,
		Cards:      []*dbmodels.TradeCard{{TradeID: 7, CardID: 10}},
	}
}

func TestCreateTrade(t *testing.T) {
	tests := []struct {
		name       string
		session    *models.UserSession
		body       string
		expectRepo bool
		wantStatus int
	}{
		{
			name:       "success",
			session:    bobSession(),
			body:       `{"user_id": 5, "cards": [10, 11]}`,
			expectRepo: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unauthenticated",
			session:    nil,
			body:       `{"user_id": 5, "cards": [10]}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "self trade",
			session:    bobSession(),
			body:       `{"user_id": 2, "cards": [10]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty cards",
			session:    bobSession(),
			body:       `{"user_id": 5, "cards": []}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			if tt.expectRepo {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any(), []int64{10, 11}).
					Return(nil)
			}

			app := newTradeApp(repo, tt.session)
			req := httptest.NewRequest(http.MethodPost, "/api/trade", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestAcceptTrade_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		session    *models.UserSession
		trade      *dbmodels.Trade
		getErr     error
		wantAccept bool
		wantStatus int
	}{
		{
			name:       "receiver accepts",
			session:    bobSession(),
			trade:      offeredTrade(),
			wantAccept: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing trade",
			session:    bobSession(),
			getErr:     trading.ErrTradeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:    "terminal trade",
			session: bobSession(),
			trade: func() *dbmodels.Trade {
				tr := offeredTrade()
				tr.Status = dbmodels.TradeAccepted
				return tr
			}(),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not the receiver",
			session:    &models.UserSession{UserID: 1, Email: "alice@example.com"},
			trade:      offeredTrade(),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().
				GetByTradeID(gomock.Any(), "t-7").
				Return(tt.trade, tt.getErr)
			if tt.wantAccept {
				repo.EXPECT().Accept(gomock.Any(), int64(7)).Return(nil)
			}

			app := newTradeApp(repo, tt.session)
			req := httptest.NewRequest(http.MethodPut, "/api/trade/accept/t-7", nil)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRejectTrade_StatusMapping(t *testing.T) {
	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		GetByTradeID(gomock.Any(), "t-7").
		Return(offeredTrade(), nil)
	repo.EXPECT().Reject(gomock.Any(), int64(7)).Return(nil)

	app := newTradeApp(repo, bobSession())
	req := httptest.NewRequest(http.MethodPut, "/api/trade/reject/t-7", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestGetPendingTrade_TerminalHidden(t *testing.T) {
	terminal := offeredTrade()
	terminal.Status = dbmodels.TradeRejected

	repo := mock.NewMockRepository(gomock.NewController(t))
	repo.EXPECT().
		GetByTradeID(gomock.Any(), "t-7").
		Return(terminal, nil)

	app := newTradeApp(repo, bobSession())
	req := httptest.NewRequest(http.MethodGet, "/api/trade/t-7", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}
