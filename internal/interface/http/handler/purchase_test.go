package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apppurchase "github.com/xiebiao/gamesup/internal/application/purchase"
	"github.com/xiebiao/gamesup/internal/domain/purchase"
	"github.com/xiebiao/gamesup/internal/domain/user"
	"github.com/xiebiao/gamesup/internal/interface/http/middleware"
	"github.com/xiebiao/gamesup/pkg/jwt"
)

type MockPurchaseManager struct {
	mock.Mock
}

func (m *MockPurchaseManager) purchaseResult(args mock.Arguments) (*purchase.Purchase, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.Purchase), args.Error(1)
}

func (m *MockPurchaseManager) pageResult(args mock.Arguments) (*apppurchase.Page, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apppurchase.Page), args.Error(1)
}

func (m *MockPurchaseManager) Create(ctx context.Context, userID uint, currency string) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, userID, currency))
}

func (m *MockPurchaseManager) AddLine(ctx context.Context, purchaseID, gameID uint, quantity int) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID, gameID, quantity))
}

func (m *MockPurchaseManager) RemoveLine(ctx context.Context, purchaseID, lineID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID, lineID))
}

func (m *MockPurchaseManager) MarkAsPaid(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID))
}

func (m *MockPurchaseManager) MarkAsShipped(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID))
}

func (m *MockPurchaseManager) MarkAsDelivered(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID))
}

func (m *MockPurchaseManager) Cancel(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID))
}

func (m *MockPurchaseManager) Delete(ctx context.Context, purchaseID uint) error {
	return m.Called(ctx, purchaseID).Error(0)
}

func (m *MockPurchaseManager) Get(ctx context.Context, purchaseID uint) (*purchase.Purchase, error) {
	return m.purchaseResult(m.Called(ctx, purchaseID))
}

func (m *MockPurchaseManager) List(ctx context.Context, params purchase.ListParams) (*apppurchase.Page, error) {
	return m.pageResult(m.Called(ctx, params))
}

func (m *MockPurchaseManager) ListByUser(ctx context.Context, userID uint, params purchase.ListParams) (*apppurchase.Page, error) {
	return m.pageResult(m.Called(ctx, userID, params))
}

func (m *MockPurchaseManager) ListByStatus(ctx context.Context, status string, params purchase.ListParams) (*apppurchase.Page, error) {
	return m.pageResult(m.Called(ctx, status, params))
}

type emptyBlacklist struct{}

func (emptyBlacklist) IsInBlacklist(context.Context, string) (bool, error) { return false, nil }

type purchaseAPI struct {
	engine  *gin.Engine
	manager *MockPurchaseManager
	jwt     *jwt.Manager
}

func newPurchaseAPI() *purchaseAPI {
	gin.SetMode(gin.TestMode)

	manager := new(MockPurchaseManager)
	jwtManager := jwt.NewManager("handler-test-secret", time.Hour, 24*time.Hour)
	auth := middleware.NewAuthMiddleware(jwtManager, emptyBlacklist{})
	h := NewPurchaseHandler(manager)

	r := gin.New()
	g := r.Group("/api/v1/purchases", auth.RequireAuth())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/lines", h.AddLine)
	g.DELETE("/:id/lines/:lineId", h.RemoveLine)
	g.POST("/:id/pay", h.Pay)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/ship", auth.RequireRole(user.RoleAdmin), h.Ship)
	g.DELETE("/:id", auth.RequireRole(user.RoleAdmin), h.Delete)

	return &purchaseAPI{engine: r, manager: manager, jwt: jwtManager}
}

func (a *purchaseAPI) token(t *testing.T, userID uint, role user.Role) string {
	t.Helper()
	pair, err := a.jwt.GenerateToken(jwt.Subject{UserID: userID, Email: "u@gamesup.io", Role: string(role)})
	require.NoError(t, err)
	return pair.AccessToken
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *purchaseAPI) do(t *testing.T, method, path, token, body string) (int, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func pendingPurchase(id, owner uint) *purchase.Purchase {
	return &purchase.Purchase{
		ID:          id,
		UserID:      owner,
		Status:      purchase.StatusPending,
		Currency:    "EUR",
		TotalAmount: decimal.Zero,
		Lines:       []purchase.Line{},
		CreatedAt:   time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPurchaseHandler_RequiresToken(t *testing.T) {
	api := newPurchaseAPI()
	status, resp := api.do(t, http.MethodGet, "/api/v1/purchases/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, 40100, resp.Code)
}

func TestPurchaseHandler_Create(t *testing.T) {
	t.Run("for self", func(t *testing.T) {
		api := newPurchaseAPI()
		api.manager.On("Create", mock.Anything, uint(1), "eur").Return(pendingPurchase(7, 1), nil)

		status, resp := api.do(t, http.MethodPost, "/api/v1/purchases", api.token(t, 1, user.RoleUser), `{"currency":"eur"}`)
		assert.Equal(t, http.StatusCreated, status)

		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "PENDING", data["status"])
		assert.Equal(t, "0.00", data["total_amount"])
		assert.Nil(t, data["paid_at"])
		api.manager.AssertExpectations(t)
	})

	t.Run("for another user requires admin", func(t *testing.T) {
		api := newPurchaseAPI()
		status, _ := api.do(t, http.MethodPost, "/api/v1/purchases", api.token(t, 1, user.RoleUser), `{"owner_id":2,"currency":"EUR"}`)
		assert.Equal(t, http.StatusForbidden, status)
		api.manager.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank currency surfaces manager message", func(t *testing.T) {
		api := newPurchaseAPI()
		api.manager.On("Create", mock.Anything, uint(1), "").Return(nil, purchase.ErrCurrencyRequired)

		status, resp := api.do(t, http.MethodPost, "/api/v1/purchases", api.token(t, 1, user.RoleUser), `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "currency cannot be empty", resp.Message)
	})
}

func TestPurchaseHandler_AddLine(t *testing.T) {
	api := newPurchaseAPI()
	token := api.token(t, 1, user.RoleUser)

	updated := pendingPurchase(7, 1)
	updated.Lines = []purchase.Line{{ID: 3, PurchaseID: 7, GameID: 10, Quantity: 2, UnitPriceAtPurchase: decimal.RequireFromString("29.99"), Currency: "EUR"}}
	updated.TotalAmount = updated.CalculateTotal()

	api.manager.On("Get", mock.Anything, uint(7)).Return(pendingPurchase(7, 1), nil)
	api.manager.On("AddLine", mock.Anything, uint(7), uint(10), 2).Return(updated, nil)

	status, resp := api.do(t, http.MethodPost, "/api/v1/purchases/7/lines", token, `{"item_id":10,"quantity":2}`)
	require.Equal(t, http.StatusOK, status)

	var data struct {
		TotalAmount string `json:"total_amount"`
		Lines       []struct {
			ItemID   uint   `json:"item_id"`
			Price    string `json:"unit_price_at_purchase"`
			Subtotal string `json:"subtotal"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "59.98", data.TotalAmount)
	require.Len(t, data.Lines, 1)
	assert.Equal(t, uint(10), data.Lines[0].ItemID)
	assert.Equal(t, "29.99", data.Lines[0].Price)
	assert.Equal(t, "59.98", data.Lines[0].Subtotal)
}

func TestPurchaseHandler_OwnershipAndRoles(t *testing.T) {
	api := newPurchaseAPI()
	api.manager.On("Get", mock.Anything, uint(7)).Return(pendingPurchase(7, 1), nil)

	status, _ := api.do(t, http.MethodGet, "/api/v1/purchases/7", api.token(t, 2, user.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(t, http.MethodGet, "/api/v1/purchases/7", api.token(t, 9, user.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, status)

	status, resp := api.do(t, http.MethodPost, "/api/v1/purchases/7/ship", api.token(t, 1, user.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, 40104, resp.Code)
	api.manager.AssertNotCalled(t, "MarkAsShipped", mock.Anything, mock.Anything)
}

func TestPurchaseHandler_StateErrorsMapTo409(t *testing.T) {
	api := newPurchaseAPI()
	token := api.token(t, 1, user.RoleUser)
	api.manager.On("Get", mock.Anything, uint(7)).Return(pendingPurchase(7, 1), nil)
	api.manager.On("MarkAsPaid", mock.Anything, uint(7)).Return(nil, purchase.ErrEmptyPurchase)

	status, resp := api.do(t, http.MethodPost, "/api/v1/purchases/7/pay", token, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "cannot mark empty purchase as paid", resp.Message)
}

func TestPurchaseHandler_NotFound(t *testing.T) {
	api := newPurchaseAPI()
	api.manager.On("Get", mock.Anything, uint(404)).Return(nil, purchase.NewPurchaseNotFound(404))

	status, resp := api.do(t, http.MethodPost, "/api/v1/purchases/404/cancel", api.token(t, 1, user.RoleUser), "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "purchase not found with id: 404", resp.Message)
}

func TestPurchaseHandler_InvalidPathID(t *testing.T) {
	api := newPurchaseAPI()
	status, _ := api.do(t, http.MethodGet, "/api/v1/purchases/abc", api.token(t, 1, user.RoleUser), "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPurchaseHandler_List(t *testing.T) {
	page := &apppurchase.Page{Items: []*purchase.Purchase{pendingPurchase(7, 1)}, Total: 1, Page: 1, PageSize: 20}

	t.Run("user sees own purchases", func(t *testing.T) {
		api := newPurchaseAPI()
		api.manager.On("ListByUser", mock.Anything, uint(1), purchase.ListParams{}).Return(page, nil)

		status, resp := api.do(t, http.MethodGet, "/api/v1/purchases", api.token(t, 1, user.RoleUser), "")
		assert.Equal(t, http.StatusOK, status)

		var data struct {
			Total int64 `json:"total"`
			List  []struct {
				ID uint `json:"id"`
			} `json:"list"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, int64(1), data.Total)
		assert.Equal(t, uint(7), data.List[0].ID)
	})

	t.Run("user cannot list others", func(t *testing.T) {
		api := newPurchaseAPI()
		status, _ := api.do(t, http.MethodGet, "/api/v1/purchases?user_id=2", api.token(t, 1, user.RoleUser), "")
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("admin filters by status", func(t *testing.T) {
		api := newPurchaseAPI()
		api.manager.On("ListByStatus", mock.Anything, "PAID", purchase.ListParams{Page: 2, PageSize: 5}).Return(page, nil)

		status, _ := api.do(t, http.MethodGet, "/api/v1/purchases?status=PAID&page=2&page_size=5", api.token(t, 9, user.RoleAdmin), "")
		assert.Equal(t, http.StatusOK, status)
		api.manager.AssertExpectations(t)
	})

	t.Run("admin unknown status", func(t *testing.T) {
		api := newPurchaseAPI()
		_, err := purchase.ParseStatus("REFUNDED")
		api.manager.On("ListByStatus", mock.Anything, "REFUNDED", purchase.ListParams{}).Return(nil, err)

		status, _ := api.do(t, http.MethodGet, "/api/v1/purchases?status=REFUNDED", api.token(t, 9, user.RoleAdmin), "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("admin lists all", func(t *testing.T) {
		api := newPurchaseAPI()
		api.manager.On("List", mock.Anything, purchase.ListParams{}).Return(page, nil)

		status, _ := api.do(t, http.MethodGet, "/api/v1/purchases", api.token(t, 9, user.RoleAdmin), "")
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestPurchaseHandler_AdminDelete(t *testing.T) {
	api := newPurchaseAPI()
	api.manager.On("Delete", mock.Anything, uint(7)).Return(nil)

	status, _ := api.do(t, http.MethodDelete, "/api/v1/purchases/7", api.token(t, 9, user.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, status)
	api.manager.AssertExpectations(t)
}
