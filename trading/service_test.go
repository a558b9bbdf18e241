package trading

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/trading/mock"
)

func pendingTrade() *models.Trade {
	return &models.Trade{
		ID:         7,
		TradeID:    "t-7",
		SenderID:   1,
		ReceiverID: 2,
		Status:     models.TradePending,
		Cards: []*models.TradeCard{
			{TradeID: 7, CardID: 10},
			{TradeID: 7, CardID: 11},
		},
	}
}

func acceptedTrade() *models.Trade {
	t := pendingTrade()
	t.Status = models.TradeAccepted
	return t
}

func TestService_CreateTrade(t *testing.T) {
	tests := []struct {
		name       string
		senderID   int64
		receiverID int64
		cardIDs    []int64
		repoErr    error
		wantErr    error
	}{
		{
			name:       "success",
			senderID:   1,
			receiverID: 2,
			cardIDs:    []int64{10, 11},
		},
		{
			name:       "self trade rejected",
			senderID:   1,
			receiverID: 1,
			cardIDs:    []int64{10},
			wantErr:    ErrSelfTrade,
		},
		{
			name:       "empty card list rejected",
			senderID:   1,
			receiverID: 2,
			cardIDs:    nil,
			wantErr:    ErrNoCards,
		},
	}

	errRepo := errors.New("db down")
	tests = append(tests, struct {
		name       string
		senderID   int64
		receiverID int64
		cardIDs    []int64
		repoErr    error
		wantErr    error
	}{
		name:       "repository failure surfaces",
		senderID:   1,
		receiverID: 2,
		cardIDs:    []int64{10},
		repoErr:    errRepo,
		wantErr:    errRepo,
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			if tt.wantErr == nil || tt.repoErr != nil {
				repo.EXPECT().
					Create(gomock.Any(), gomock.Any(), tt.cardIDs).
					DoAndReturn(func(_ context.Context, trade *models.Trade, _ []int64) error {
						if trade.Status != models.TradePending {
							t.Errorf("Create called with status %q, want pending", trade.Status)
						}
						if trade.TradeID == "" {
							t.Error("Create called with empty trade id")
						}
						return tt.repoErr
					})
			}

			s := NewService(repo)
			tradeID, err := s.CreateTrade(context.Background(), tt.senderID, tt.receiverID, tt.cardIDs)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateTrade() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTrade() unexpected error = %v", err)
			}
			if tradeID == "" {
				t.Error("CreateTrade() returned empty trade id")
			}
		})
	}
}

func TestService_AcceptTrade(t *testing.T) {
	tests := []struct {
		name         string
		actingUserID int64
		trade        *models.Trade
		getErr       error
		acceptErr    error
		wantAccept   bool
		wantErr      error
	}{
		{
			name:         "receiver accepts pending trade",
			actingUserID: 2,
			trade:        pendingTrade(),
			wantAccept:   true,
		},
		{
			name:         "missing trade",
			actingUserID: 2,
			getErr:       ErrTradeNotFound,
			wantErr:      ErrTradeNotFound,
		},
		{
			name:         "terminal trade",
			actingUserID: 2,
			trade:        acceptedTrade(),
			wantErr:      ErrNotPending,
		},
		{
			name:         "sender cannot accept",
			actingUserID: 1,
			trade:        pendingTrade(),
			wantErr:      ErrNotReceiver,
		},
		{
			name:         "third party cannot accept",
			actingUserID: 99,
			trade:        pendingTrade(),
			wantErr:      ErrNotReceiver,
		},
		{
			name:         "raced settlement loses inside transaction",
			actingUserID: 2,
			trade:        pendingTrade(),
			acceptErr:    ErrNotPending,
			wantAccept:   true,
			wantErr:      ErrNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().
				GetByTradeID(gomock.Any(), "t-7").
				Return(tt.trade, tt.getErr)
			if tt.wantAccept {
				repo.EXPECT().
					Accept(gomock.Any(), int64(7)).
					Return(tt.acceptErr)
			}

			s := NewService(repo)
			err := s.AcceptTrade(context.Background(), tt.actingUserID, "t-7")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AcceptTrade() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_RejectTrade(t *testing.T) {
	tests := []struct {
		name         string
		actingUserID int64
		trade        *models.Trade
		getErr       error
		wantReject   bool
		wantErr      error
	}{
		{
			name:         "receiver rejects pending trade",
			actingUserID: 2,
			trade:        pendingTrade(),
			wantReject:   true,
		},
		{
			name:         "missing trade",
			actingUserID: 2,
			getErr:       ErrTradeNotFound,
			wantErr:      ErrTradeNotFound,
		},
		{
			name:         "terminal trade",
			actingUserID: 2,
			trade:        acceptedTrade(),
			wantErr:      ErrNotPending,
		},
		{
			name:         "sender cannot reject",
			actingUserID: 1,
			trade:        pendingTrade(),
			wantErr:      ErrNotReceiver,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().
				GetByTradeID(gomock.Any(), "t-7").
				Return(tt.trade, tt.getErr)
			if tt.wantReject {
				repo.EXPECT().
					Reject(gomock.Any(), int64(7)).
					Return(nil)
			}

			s := NewService(repo)
			err := s.RejectTrade(context.Background(), tt.actingUserID, "t-7")

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RejectTrade() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_GetPendingTrade(t *testing.T) {
	tests := []struct {
		name    string
		trade   *models.Trade
		getErr  error
		wantErr error
	}{
		{
			name:  "pending trade returned",
			trade: pendingTrade(),
		},
		{
			name:    "missing trade",
			getErr:  ErrTradeNotFound,
			wantErr: ErrTradeNotFound,
		},
		{
			name:    "terminal trade hidden from actionable view",
			trade:   acceptedTrade(),
			wantErr: ErrNotPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMockRepository(gomock.NewController(t))
			repo.EXPECT().
				GetByTradeID(gomock.Any(), "t-7").
				Return(tt.trade, tt.getErr)

			s := NewService(repo)
			got, err := s.GetPendingTrade(context.Background(), "t-7")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetPendingTrade() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.TradeID != "t-7" {
				t.Errorf("GetPendingTrade() trade id = %q, want t-7", got.TradeID)
			}
		})
	}
}

func TestTradeStatus_Terminal(t *testing.T) {
	if models.TradePending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !models.TradeAccepted.Terminal() {
		t.Error("accepted must be terminal")
	}
	if !models.TradeRejected.Terminal() {
		t.Error("rejected must be terminal")
	}
}
