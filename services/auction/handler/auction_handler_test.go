package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/budisantoso88/shipbid-app/internal/auctionerrors"
	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// decimalEq matches decimals by value, ignoring their internal representation
type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return "is decimal " + m.want.String() }

func newTestRouter(t *testing.T) (*gin.Engine, *MockAuctionServiceInterface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := NewMockAuctionServiceInterface(ctrl)
	h := NewAuctionHandler(mockService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/users", h.RegisterUserHandler)
	router.GET("/users/:user_id", h.GetUserHandler)
	router.GET("/users/:user_id/auctions", h.GetAuctionsByBidderHandler)
	router.GET("/users/:user_id/notifications", h.GetNotificationsHandler)
	router.POST("/users/:user_id/notifications/read", h.MarkAllReadHandler)
	router.POST("/notifications/:notification_id/read", h.MarkReadHandler)
	router.GET("/users/:user_id/tokens", h.GetTokensHandler)
	router.POST("/users/:user_id/tokens/purchase", h.PurchaseTokensHandler)
	router.GET("/token-packages", h.ListTokenPackagesHandler)
	router.POST("/auctions", h.CreateAuctionHandler)
	router.GET("/auctions", h.ListAuctionsHandler)
	router.GET("/auctions/:auction_id", h.GetAuctionHandler)
	router.POST("/auctions/:auction_id/bids", h.PlaceBidHandler)
	router.GET("/auctions/:auction_id/bids", h.GetBidsHandler)
	router.GET("/auctions/:auction_id/winning", h.GetWinningBidHandler)
	router.POST("/auctions/:auction_id/bids/:bid_id/accept", h.AcceptBidHandler)
	router.POST("/auctions/:auction_id/cancel", h.CancelAuctionHandler)
	router.POST("/auctions/:auction_id/ratings", h.RateHandler)
	return router, mockService
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	now := time.Now().UTC()
	auctionID := uuid.NewString()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			requestBody: `{"transporter_id":"t1","amount":2300000,"notes":"Can pick up tomorrow"}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(auctionID, "t1", decimalEq{decimal.NewFromInt(2300000)}, "Can pick up tomorrow").
					Return(model.Bid{
						BidID:         uuid.NewString(),
						AuctionID:     auctionID,
						TransporterID: "t1",
						Amount:        decimal.NewFromInt(2300000),
						Notes:         "Can pick up tomorrow",
						CreatedAt:     now,
						Status:        model.BidPending,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, auctionID, data["auction_id"])
				require.Equal(t, "t1", data["transporter_id"])
				require.Equal(t, "2300000", data["amount"])
				require.Equal(t, "pending", data["status"])
			},
		},
		{
			name:        "fractional_amount_as_string",
			requestBody: `{"transporter_id":"t1","amount":"1999999.50"}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().
					PlaceBid(auctionID, "t1", decimalEq{decimal.RequireFromString("1999999.5")}, "").
					Return(model.Bid{BidID: uuid.NewString(), AuctionID: auctionID, TransporterID: "t1", Amount: decimal.RequireFromString("1999999.5"), CreatedAt: now}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(*MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_transporter_id",
			requestBody:    `{"amount":100}`,
			mockSetup:      func(*MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_invalid_amount",
			requestBody: `{"transporter_id":"t1","amount":0}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PlaceBid(auctionID, "t1", gomock.Any(), "").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidAmount))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid amount",
		},
		{
			name:        "service_insufficient_tokens",
			requestBody: `{"transporter_id":"t1","amount":100}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PlaceBid(auctionID, "t1", gomock.Any(), "").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrInsufficientTokens))
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedMsg:    "insufficient tokens",
		},
		{
			name:        "service_auction_closed",
			requestBody: `{"transporter_id":"t1","amount":100}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PlaceBid(auctionID, "t1", gomock.Any(), "").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionClosed))
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "auction is closed",
		},
		{
			name:        "service_not_found",
			requestBody: `{"transporter_id":"t1","amount":100}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PlaceBid(auctionID, "t1", gomock.Any(), "").
					Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "resource not found",
		},
		{
			name:        "service_generic_error",
			requestBody: `{"transporter_id":"t1","amount":100}`,
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().PlaceBid(auctionID, "t1", gomock.Any(), "").
					Return(model.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, mockService := newTestRouter(t)
			tc.mockSetup(mockService)

			status, resp := doRequest(t, router, http.MethodPost, "/auctions/"+auctionID+"/bids", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && status == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test CreateAuctionHandler
func TestCreateAuctionHandler(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	endTime := now.Add(2 * time.Hour)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "success_with_end_time",
			requestBody: map[string]any{
				"shipper_id":  "s1",
				"title":       "Electronics shipment",
				"origin":      "Jakarta",
				"destination": "Surabaya",
				"weight":      500,
				"budget":      "2500000",
				"end_time":    endTime.Format(time.RFC3339),
			},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().CreateAuction(gomock.Any(), "s1").
					DoAndReturn(func(spec model.AuctionSpec, shipperID string) (model.Auction, error) {
						require.True(t, spec.EndTime.Equal(endTime))
						require.True(t, spec.Budget.Equal(decimal.NewFromInt(2500000)))
						return model.Auction{
							AuctionID: uuid.NewString(),
							Title:     spec.Title,
							Budget:    spec.Budget,
							CreatedAt: now,
							EndTime:   spec.EndTime,
							Status:    model.AuctionActive,
							ShipperID: shipperID,
						}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction created successfully",
		},
		{
			name:           "missing_origin",
			requestBody:    map[string]any{"shipper_id": "s1", "title": "x", "destination": "Surabaya", "budget": "10"},
			mockSetup:      func(*MockAuctionServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "insufficient_tokens",
			requestBody: map[string]any{"shipper_id": "s1", "title": "x", "origin": "Jakarta", "destination": "Surabaya", "budget": "10"},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().CreateAuction(gomock.Any(), "s1").
					Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrInsufficientTokens))
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedMsg:    "insufficient tokens",
		},
		{
			name:        "invalid_range",
			requestBody: map[string]any{"shipper_id": "s1", "title": "x", "origin": "Jakarta", "destination": "Surabaya", "budget": "10", "end_time": now.Format(time.RFC3339)},
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().CreateAuction(gomock.Any(), "s1").
					Return(model.Auction{}, fmt.Errorf("repository: %w", auctionerrors.ErrInvalidRange))
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid time range",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, mockService := newTestRouter(t)
			tc.mockSetup(mockService)

			status, resp := doRequest(t, router, http.MethodPost, "/auctions", tc.requestBody)
			require.Equal(t, tc.expectedStatus, status)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test AcceptBidHandler
func TestAcceptBidHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().AcceptBid("a1", "b1").Return(model.Auction{
			AuctionID:            "a1",
			Status:               model.AuctionCompleted,
			WinningBidID:         "b1",
			WinningTransporterID: "t1",
			Bids: []model.Bid{
				{BidID: "b1", AuctionID: "a1", TransporterID: "t1", Amount: decimal.NewFromInt(2300000), Status: model.BidAccepted},
				{BidID: "b2", AuctionID: "a1", TransporterID: "t2", Amount: decimal.NewFromInt(2400000), Status: model.BidRejected},
			},
		}, nil)

		status, resp := doRequest(t, router, http.MethodPost, "/auctions/a1/bids/b1/accept", nil)
		require.Equal(t, http.StatusOK, status)
		data := resp["data"].(map[string]any)
		require.Equal(t, "completed", data["status"])
		require.Equal(t, "b1", data["winning_bid_id"])
		bids := data["bids"].([]any)
		require.Len(t, bids, 2)
		require.Equal(t, "rejected", bids[1].(map[string]any)["status"])
	})

	t.Run("invalid_state", func(t *testing.T) {
		router, mockService := newTestRouter(t)
		mockService.EXPECT().AcceptBid("a1", "b2").
			Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidState))

		status, resp := doRequest(t, router, http.MethodPost, "/auctions/a1/bids/b2/accept", nil)
		require.Equal(t, http.StatusConflict, status)
		require.Contains(t, resp["message"], "operation not allowed")
	})
}

// Test ListAuctionsHandler
func TestListAuctionsHandler(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		mockSetup      func(m *MockAuctionServiceInterface)
		expectedStatus int
	}{
		{
			name:  "no_filter",
			query: "",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ListAuctions(model.AuctionFilter{}).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "text_and_status",
			query: "?status=active&origin=jakarta&destination=surabaya&q=electronics",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ListAuctions(model.AuctionFilter{
					Status:              model.AuctionActive,
					OriginContains:      "jakarta",
					DestinationContains: "surabaya",
					Search:              "electronics",
				}).Return([]model.Auction{{AuctionID: "a1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "price_range",
			query: "?min_price=1000000&max_price=2500000",
			mockSetup: func(m *MockAuctionServiceInterface) {
				m.EXPECT().ListAuctions(gomock.Any()).DoAndReturn(func(f model.AuctionFilter) ([]model.Auction, error) {
					require.True(t, f.PriceRange.Min.Equal(decimal.NewFromInt(1000000)))
					require.True(t, f.PriceRange.Max.Equal(decimal.NewFromInt(2500000)))
					return nil, nil
				})
			},
			expectedStatus: http.StatusOK,
		},
		{name: "unknown_status", query: "?status=archived", mockSetup: func(*MockAuctionServiceInterface) {}, expectedStatus: http.StatusBadRequest},
		{name: "bad_price", query: "?min_price=cheap", mockSetup: func(*MockAuctionServiceInterface) {}, expectedStatus: http.StatusBadRequest},
		{name: "inverted_range", query: "?min_price=10&max_price=5", mockSetup: func(*MockAuctionServiceInterface) {}, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, mockService := newTestRouter(t)
			tc.mockSetup(mockService)

			status, resp := doRequest(t, router, http.MethodGet, "/auctions"+tc.query, nil)
			require.Equal(t, tc.expectedStatus, status)
			if status == http.StatusOK {
				require.NotNil(t, resp["data"])
			}
		})
	}
}

// Test GetBidsHandler
func TestGetBidsHandler(t *testing.T) {
	t.Parallel()

	router, mockService := newTestRouter(t)
	gomock.InOrder(
		mockService.EXPECT().GetBids("a1", false).Return([]model.Bid{{BidID: "b1"}, {BidID: "b2"}}, nil),
		mockService.EXPECT().GetBids("a1", true).Return([]model.Bid{{BidID: "b2"}, {BidID: "b1"}}, nil),
		mockService.EXPECT().GetBids("missing", false).Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrNotFound)),
	)

	status, resp := doRequest(t, router, http.MethodGet, "/auctions/a1/bids", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "b1", resp["data"].([]any)[0].(map[string]any)["bid_id"])

	status, resp = doRequest(t, router, http.MethodGet, "/auctions/a1/bids?sort=rank", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "b2", resp["data"].([]any)[0].(map[string]any)["bid_id"])

	status, _ = doRequest(t, router, http.MethodGet, "/auctions/missing/bids", nil)
	require.Equal(t, http.StatusNotFound, status)
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	t.Parallel()

	router, mockService := newTestRouter(t)
	mockService.EXPECT().GetWinningBid("a1").Return(model.Bid{BidID: "b1", Amount: decimal.NewFromInt(100)}, nil)
	mockService.EXPECT().GetWinningBid("a2").Return(model.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrNotFound))

	status, resp := doRequest(t, router, http.MethodGet, "/auctions/a1/winning", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "b1", resp["data"].(map[string]any)["bid_id"])

	status, resp = doRequest(t, router, http.MethodGet, "/auctions/a2/winning", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Contains(t, resp["error"], "not found")
}

// Test notification handlers
func TestNotificationHandlers(t *testing.T) {
	t.Parallel()

	router, mockService := newTestRouter(t)
	mockService.EXPECT().ListNotifications("s1").Return([]model.Notification{
		{NotificationID: "n1", UserID: "s1", Title: "New bid received", Type: model.NotificationBid},
	}, nil)
	mockService.EXPECT().UnreadCount("s1").Return(1)
	mockService.EXPECT().MarkRead("n1").Return(model.Notification{NotificationID: "n1", Read: true}, nil).Times(2)
	mockService.EXPECT().MarkAllRead("s1").Return(0, nil)
	mockService.EXPECT().ListNotifications("ghost").Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrNotFound))

	status, resp := doRequest(t, router, http.MethodGet, "/users/s1/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	data := resp["data"].(map[string]any)
	require.Equal(t, float64(1), data["unread_count"])
	require.Len(t, data["notifications"], 1)

	for i := 0; i < 2; i++ {
		status, resp = doRequest(t, router, http.MethodPost, "/notifications/n1/read", nil)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, true, resp["data"].(map[string]any)["read"])
	}

	status, resp = doRequest(t, router, http.MethodPost, "/users/s1/notifications/read", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(0), resp["data"].(map[string]any)["updated"])

	status, _ = doRequest(t, router, http.MethodGet, "/users/ghost/notifications", nil)
	require.Equal(t, http.StatusNotFound, status)
}

// Test token handlers
func TestTokenHandlers(t *testing.T) {
	t.Parallel()

	router, mockService := newTestRouter(t)
	mockService.EXPECT().TokenPackages().Return([]model.TokenPackage{
		{PackageID: "1", Name: "Basic", TokenAmount: 50, Price: decimal.NewFromInt(50000)},
	})
	mockService.EXPECT().PurchaseTokens("s1", "2").Return(165, nil)
	mockService.EXPECT().PurchaseTokens("s1", "99").Return(0, fmt.Errorf("service: %w", auctionerrors.ErrNotFound))
	mockService.EXPECT().GetUser("s1").Return(model.User{UserID: "s1", TokenBalance: 165}, nil)
	mockService.EXPECT().TokenHistory("s1").Return([]model.LedgerEntry{
		{UserID: "s1", Delta: 15, Balance: 15, Reason: model.ReasonOpeningBalance},
		{UserID: "s1", Delta: 150, Balance: 165, Reason: model.ReasonTokenPurchase, Reference: "2"},
	}, nil)

	status, resp := doRequest(t, router, http.MethodGet, "/token-packages", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "50000", resp["data"].([]any)[0].(map[string]any)["price"])

	status, resp = doRequest(t, router, http.MethodPost, "/users/s1/tokens/purchase", helpers.PurchaseTokensRequest{PackageID: "2"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, float64(165), resp["data"].(map[string]any)["balance"])

	status, _ = doRequest(t, router, http.MethodPost, "/users/s1/tokens/purchase", helpers.PurchaseTokensRequest{PackageID: "99"})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = doRequest(t, router, http.MethodPost, "/users/s1/tokens/purchase", `{}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, resp = doRequest(t, router, http.MethodGet, "/users/s1/tokens", nil)
	require.Equal(t, http.StatusOK, status)
	data := resp["data"].(map[string]any)
	require.Equal(t, float64(165), data["balance"])
	require.Len(t, data["history"], 2)
}

// Test user, cancel and rating handlers
func TestUserCancelAndRateHandlers(t *testing.T) {
	t.Parallel()

	router, mockService := newTestRouter(t)
	mockService.EXPECT().RegisterUser(model.User{Name: "PT Logistik", Email: "ops@logistik.id", UserType: model.UserTypeTransporter}, 50).
		Return(model.User{UserID: "t9", Name: "PT Logistik", UserType: model.UserTypeTransporter, TokenBalance: 50}, nil)
	mockService.EXPECT().GetUser("t9").Return(model.User{UserID: "t9", TokenBalance: 50}, nil)
	mockService.EXPECT().GetAuctionsByBidder("t9").Return([]model.Auction{{AuctionID: "a1"}}, nil)
	mockService.EXPECT().CancelAuction("a1", "t9").Return(model.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrInvalidState))
	mockService.EXPECT().CancelAuction("a1", "s1").Return(model.Auction{AuctionID: "a1", Status: model.AuctionCancelled}, nil)
	mockService.EXPECT().RateCounterpart("a1", "s1", 5, "On time").Return(model.Rating{RatingID: "r1", ToUserID: "t1", Score: 5}, nil)

	status, resp := doRequest(t, router, http.MethodPost, "/users", helpers.RegisterUserRequest{
		Name: "PT Logistik", Email: "ops@logistik.id", UserType: model.UserTypeTransporter, OpeningBalance: 50,
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "t9", resp["data"].(map[string]any)["user_id"])

	status, _ = doRequest(t, router, http.MethodPost, "/users", `{"name":"x","user_type":"broker"}`)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doRequest(t, router, http.MethodGet, "/users/t9", nil)
	require.Equal(t, http.StatusOK, status)

	status, resp = doRequest(t, router, http.MethodGet, "/users/t9/auctions", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, resp["data"], 1)

	status, _ = doRequest(t, router, http.MethodPost, "/auctions/a1/cancel", helpers.CancelAuctionRequest{ShipperID: "t9"})
	require.Equal(t, http.StatusConflict, status)

	status, resp = doRequest(t, router, http.MethodPost, "/auctions/a1/cancel", helpers.CancelAuctionRequest{ShipperID: "s1"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "cancelled", resp["data"].(map[string]any)["status"])

	status, _ = doRequest(t, router, http.MethodPost, "/auctions/a1/ratings", helpers.RateRequest{FromUserID: "s1", Score: 5, Review: "On time"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = doRequest(t, router, http.MethodPost, "/auctions/a1/ratings", `{"from_user_id":"s1"}`)
	require.Equal(t, http.StatusBadRequest, status)
}
