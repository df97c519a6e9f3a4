package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/service"
)

// Handler bundles the service surface behind the /v1 routes.
type Handler struct {
	auth     service.AuthService
	tokens   service.TokenService
	catalog  service.CatalogService
	orders   service.OrderService
	accounts service.AccountService
}

func NewHandler(auth service.AuthService, tokens service.TokenService, catalog service.CatalogService, orders service.OrderService, accounts service.AccountService) *Handler {
	return &Handler{
		auth:     auth,
		tokens:   tokens,
		catalog:  catalog,
		orders:   orders,
		accounts: accounts,
	}
}

// --- auth ---

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.VerifyEmail(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) verifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyLoginOTPRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.VerifyLoginOTP(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.RefreshAccessToken(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// logout is stateless: tokens are not tracked server side, the client
// discards them. The endpoint exists so clients have a uniform flow.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	res, err := h.auth.Me(r.Context(), claims.UserID.String())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- profile ---

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	res, err := h.accounts.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req dto.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.accounts.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- cart ---

func (h *Handler) cart(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	items, err := h.accounts.Cart(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, func(userID, productID uuid.UUID) error {
		return h.accounts.AddToCart(r.Context(), userID, productID)
	})
}

func (h *Handler) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.CartQuantityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	h.cartMutation(w, r, func(userID, productID uuid.UUID) error {
		return h.accounts.SetCartQuantity(r.Context(), userID, productID, req.Quantity)
	})
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, func(userID, productID uuid.UUID) error {
		return h.accounts.RemoveFromCart(r.Context(), userID, productID)
	})
}

// --- favourites ---

func (h *Handler) favourites(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	favs, err := h.accounts.Favourites(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *Handler) addFavourite(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, func(userID, productID uuid.UUID) error {
		return h.accounts.AddFavourite(r.Context(), userID, productID)
	})
}

func (h *Handler) removeFavourite(w http.ResponseWriter, r *http.Request) {
	h.cartMutation(w, r, func(userID, productID uuid.UUID) error {
		return h.accounts.RemoveFavourite(r.Context(), userID, productID)
	})
}

// cartMutation factors the shared claims + productID plumbing for the
// cart and favourite write endpoints.
func (h *Handler) cartMutation(w http.ResponseWriter, r *http.Request, fn func(userID, productID uuid.UUID) error) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	if err := fn(claims.UserID, productID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- provider applications ---

func (h *Handler) applyProvider(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req dto.ApplyProviderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.accounts.ApplyForProvider(r.Context(), claims.UserID, req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "pending"})
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListProviderApplications(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) approveProvider(w http.ResponseWriter, r *http.Request) {
	h.applicationDecision(w, r, h.accounts.ApproveProvider)
}

func (h *Handler) rejectProvider(w http.ResponseWriter, r *http.Request) {
	h.applicationDecision(w, r, h.accounts.RejectProvider)
}

func (h *Handler) applicationDecision(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID domain.UserID) error) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	if err := fn(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- products ---

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListApproved(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req dto.CreateProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	var req dto.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), claims.UserID, id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	// Admins may retire any listing; sellers only their own.
	if claims.Role == domain.RoleAdmin {
		err = h.catalog.RemoveProduct(r.Context(), id)
	} else {
		err = h.catalog.DeleteProduct(r.Context(), claims.UserID, id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMyProducts(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	products, err := h.catalog.ListMine(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) listPendingProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) setProductStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.catalog.SetProductStatus(r.Context(), id, domain.ProductStatus(req.Status)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- payments / orders ---

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	var req dto.CreateOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.orders.CreateOrder(r.Context(), claims.UserID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) confirmOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.orders.ConfirmOrder(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}
	orders, err := h.orders.ListOrders(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// --- admin ---

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, r, domain.ErrNotFound)
		return
	}
	counts, err := h.accounts.DeleteUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": counts})
}
