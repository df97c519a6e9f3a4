package impl

import (
	"context"
	"log/slog"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/store"
)

type AccountServiceImpl struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAccountServiceImpl(st *store.Store, logger *slog.Logger) *AccountServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountServiceImpl{store: st, logger: logger}
}

func (a *AccountServiceImpl) Profile(ctx context.Context, userID domain.UserID) (*dto.UserResponse, error) {
	user, err := a.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (a *AccountServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if r.Username != "" {
		fields["username"] = r.Username
	}
	if r.Email != "" {
		// A new address starts unverified again.
		fields["email"] = r.Email
		fields["email_verified"] = false
	}
	if r.Address != "" {
		fields["address"] = r.Address
	}
	if err := a.store.Users().UpdateProfile(ctx, userID, fields); err != nil {
		return nil, err
	}
	return a.Profile(ctx, userID)
}

// --- cart ---

func (a *AccountServiceImpl) Cart(ctx context.Context, userID domain.UserID) ([]domain.CartItem, error) {
	return a.store.Users().Cart(ctx, userID)
}

func (a *AccountServiceImpl) AddToCart(ctx context.Context, userID, productID domain.ProductID) error {
	product, err := a.sellable(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock < 1 {
		return domain.ErrInsufficientStock
	}
	return a.store.Users().AddToCart(ctx, userID, productID)
}

func (a *AccountServiceImpl) SetCartQuantity(ctx context.Context, userID, productID domain.ProductID, quantity int) error {
	if quantity < 1 {
		return domain.Invalid("quantity must be at least 1")
	}
	product, err := a.sellable(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > product.Stock {
		return domain.ErrInsufficientStock
	}
	return a.store.Users().SetCartQuantity(ctx, userID, productID, quantity)
}

func (a *AccountServiceImpl) RemoveFromCart(ctx context.Context, userID, productID domain.ProductID) error {
	return a.store.Users().RemoveFromCart(ctx, userID, productID)
}

// --- favourites ---

func (a *AccountServiceImpl) Favourites(ctx context.Context, userID domain.UserID) ([]domain.Favourite, error) {
	return a.store.Users().Favourites(ctx, userID)
}

func (a *AccountServiceImpl) AddFavourite(ctx context.Context, userID, productID domain.ProductID) error {
	if _, err := a.sellable(ctx, productID); err != nil {
		return err
	}
	return a.store.Users().AddFavourite(ctx, userID, productID)
}

func (a *AccountServiceImpl) RemoveFavourite(ctx context.Context, userID, productID domain.ProductID) error {
	return a.store.Users().RemoveFavourite(ctx, userID, productID)
}

// --- provider applications ---

func (a *AccountServiceImpl) ApplyForProvider(ctx context.Context, userID domain.UserID, r dto.ApplyProviderRequest) error {
	if err := r.Validate(); err != nil {
		return err
	}
	user, err := a.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	switch {
	case user.Role == domain.RoleServiceProvider:
		return domain.ErrAlreadyProvider
	case user.Role == domain.RoleAdmin:
		return domain.ErrForbidden
	case user.ProviderApplication == domain.ApplicationPending:
		return domain.ErrApplicationPending
	}
	// A rejected applicant may apply again.
	if err := a.store.Users().SetProviderApplication(ctx, userID, domain.ApplicationPending, user.Role, r.Address); err != nil {
		return err
	}
	a.logger.Info("provider application submitted", "user_id", userID)
	return nil
}

func (a *AccountServiceImpl) ListProviderApplications(ctx context.Context) ([]domain.User, error) {
	return a.store.Users().ListByApplication(ctx, domain.ApplicationPending)
}

func (a *AccountServiceImpl) ApproveProvider(ctx context.Context, userID domain.UserID) error {
	if err := a.requirePendingApplication(ctx, userID); err != nil {
		return err
	}
	if err := a.store.Users().SetProviderApplication(ctx, userID, domain.ApplicationApproved, domain.RoleServiceProvider, ""); err != nil {
		return err
	}
	a.logger.Info("provider application approved", "user_id", userID)
	return nil
}

func (a *AccountServiceImpl) RejectProvider(ctx context.Context, userID domain.UserID) error {
	if err := a.requirePendingApplication(ctx, userID); err != nil {
		return err
	}
	if err := a.store.Users().SetProviderApplication(ctx, userID, domain.ApplicationRejected, domain.RoleUser, ""); err != nil {
		return err
	}
	a.logger.Info("provider application rejected", "user_id", userID)
	return nil
}

// --- admin ---

func (a *AccountServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	return a.store.Users().List(ctx)
}

func (a *AccountServiceImpl) DeleteUser(ctx context.Context, userID domain.UserID) (map[string]int64, error) {
	counts, err := a.store.DeleteUserData(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.logger.Info("user deleted", "user_id", userID, "removed", counts)
	return counts, nil
}

// sellable loads the product and rejects anything not approved for sale.
func (a *AccountServiceImpl) sellable(ctx context.Context, productID domain.ProductID) (*domain.Product, error) {
	product, err := a.store.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != domain.ProductApproved {
		return nil, domain.ErrProductUnavailable
	}
	return product, nil
}

func (a *AccountServiceImpl) requirePendingApplication(ctx context.Context, userID domain.UserID) error {
	user, err := a.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.ProviderApplication != domain.ApplicationPending {
		return domain.ErrNoPendingApplication
	}
	return nil
}
