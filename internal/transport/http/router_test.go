package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
)

// authStub answers every call with a canned success so router tests can
// focus on the middleware around the handlers.
type authStub struct{}

func (authStub) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return &dto.RegisterResponse{UserID: uuid.NewString(), RequiresEmailVerification: true}, nil
}

func (authStub) VerifyEmail(ctx context.Context, r dto.VerifyEmailRequest) (*dto.TokenResponse, error) {
	return &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (authStub) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	return &dto.LoginResponse{UserID: uuid.NewString(), OTPRequired: true}, nil
}

func (authStub) VerifyLoginOTP(ctx context.Context, r dto.VerifyLoginOTPRequest) (*dto.TokenResponse, error) {
	return &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (authStub) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	return &dto.RefreshResponse{AccessToken: "access"}, nil
}

func (authStub) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, nil
}

type catalogStub struct{}

func (catalogStub) CreateProduct(ctx context.Context, sellerID domain.UserID, r dto.CreateProductRequest) (*domain.Product, error) {
	return &domain.Product{}, nil
}

func (catalogStub) GetProduct(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (catalogStub) ListApproved(ctx context.Context) ([]domain.Product, error) { return nil, nil }

func (catalogStub) ListMine(ctx context.Context, sellerID domain.UserID) ([]domain.Product, error) {
	return nil, nil
}

func (catalogStub) UpdateProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID, r dto.UpdateProductRequest) (*domain.Product, error) {
	return &domain.Product{ID: id}, nil
}

func (catalogStub) DeleteProduct(ctx context.Context, ownerID domain.UserID, id domain.ProductID) error {
	return nil
}

func (catalogStub) ListPending(ctx context.Context) ([]domain.Product, error) { return nil, nil }

func (catalogStub) SetProductStatus(ctx context.Context, id domain.ProductID, status domain.ProductStatus) error {
	return nil
}

func (catalogStub) RemoveProduct(ctx context.Context, id domain.ProductID) error { return nil }

type orderStub struct{}

func (orderStub) CreateOrder(ctx context.Context, userID domain.UserID, r dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	return &dto.CreateOrderResponse{}, nil
}

func (orderStub) ConfirmOrder(ctx context.Context, r dto.ConfirmOrderRequest) (*domain.Order, error) {
	return &domain.Order{}, nil
}

func (orderStub) ListOrders(ctx context.Context, userID domain.UserID) ([]domain.Order, error) {
	return nil, nil
}

type accountStub struct{}

func (accountStub) Profile(ctx context.Context, userID domain.UserID) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID.String()}, nil
}

func (accountStub) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID.String()}, nil
}

func (accountStub) Cart(ctx context.Context, userID domain.UserID) ([]domain.CartItem, error) {
	return nil, nil
}

func (accountStub) AddToCart(ctx context.Context, userID, productID domain.ProductID) error {
	return nil
}

func (accountStub) SetCartQuantity(ctx context.Context, userID, productID domain.ProductID, quantity int) error {
	return nil
}

func (accountStub) RemoveFromCart(ctx context.Context, userID, productID domain.ProductID) error {
	return nil
}

func (accountStub) Favourites(ctx context.Context, userID domain.UserID) ([]domain.Favourite, error) {
	return nil, nil
}

func (accountStub) AddFavourite(ctx context.Context, userID, productID domain.ProductID) error {
	return nil
}

func (accountStub) RemoveFavourite(ctx context.Context, userID, productID domain.ProductID) error {
	return nil
}

func (accountStub) ApplyForProvider(ctx context.Context, userID domain.UserID, r dto.ApplyProviderRequest) error {
	return nil
}

func (accountStub) ListProviderApplications(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func (accountStub) ApproveProvider(ctx context.Context, userID domain.UserID) error { return nil }

func (accountStub) RejectProvider(ctx context.Context, userID domain.UserID) error { return nil }

func (accountStub) ListUsers(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (accountStub) DeleteUser(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func newTestRouter(corsOrigins []string) http.Handler {
	tokens := &tokenStub{valid: "good-token", claims: nil}
	h := NewHandler(authStub{}, tokens, catalogStub{}, orderStub{}, accountStub{})
	return NewRouter(h, tokens, corsOrigins)
}

func loginRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"Str0ngPassw0rd"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	return req
}

func TestAuthRoutesAreThrottled(t *testing.T) {
	router := newTestRouter(nil)
	addr := "203.0.113.7:40000"

	for i := 1; i <= authRateLimit; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, loginRequest(addr))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest(addr))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request over the limit: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different client is not affected.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, loginRequest("198.51.100.9:40000"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other client: status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuthThrottleLeavesPublicRoutesAlone(t *testing.T) {
	router := newTestRouter(nil)
	addr := "203.0.113.8:40000"

	// Well past the credential budget, still below the general one.
	for i := 1; i <= authRateLimit+5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/products/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
}

func TestGeneralRateLimit(t *testing.T) {
	router := newTestRouter(nil)
	addr := "203.0.113.9:40000"

	last := 0
	for i := 1; i <= generalRateLimit+1; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("request %d: status = %d, want %d", generalRateLimit+1, last, http.StatusTooManyRequests)
	}
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/v1/products/", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	return req
}

func TestCORSPreflight(t *testing.T) {
	t.Run("default allows any origin", func(t *testing.T) {
		router := newTestRouter(nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, preflight("https://shop.example.com"))
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
			t.Fatal("expected an Access-Control-Allow-Origin header")
		}
	})

	t.Run("configured origins are enforced", func(t *testing.T) {
		router := newTestRouter([]string{"https://shop.example.com"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, preflight("https://shop.example.com"))
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
			t.Fatalf("allowed origin: header = %q", got)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, preflight("https://evil.example.com"))
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("foreign origin must not be allowed, header = %q", got)
		}
	})
}

func TestCORSHeadersOnActualRequest(t *testing.T) {
	router := newTestRouter([]string{"https://shop.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/v1/products/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestProtectedRoutesStillRequireAuth(t *testing.T) {
	router := newTestRouter(nil)

	// Throttling and CORS sit in front of, not instead of, the bearer check.
	req := httptest.NewRequest(http.MethodGet, "/v1/users/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestDistinctIPsGetDistinctBudgets(t *testing.T) {
	router := newTestRouter(nil)

	for i := 0; i < authRateLimit+3; i++ {
		addr := fmt.Sprintf("203.0.113.%d:40000", 100+i)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, loginRequest(addr))
		if rec.Code != http.StatusOK {
			t.Fatalf("fresh client %s: status = %d", addr, rec.Code)
		}
	}
}
