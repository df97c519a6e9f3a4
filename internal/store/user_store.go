package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tupatil-17/easy-shop/internal/domain"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// SetOTP overwrites any outstanding code; at most one OTP is live per user.
func (u *UserStore) SetOTP(ctx context.Context, userID uuid.UUID, code string, expiry time.Time) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"otp_code": code, "otp_expiry": expiry, "updated_at": time.Now().UTC()}).Error
}

func (u *UserStore) ClearOTP(ctx context.Context, userID uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"otp_code": nil, "otp_expiry": nil, "updated_at": time.Now().UTC()}).Error
}

// MarkVerified flips the verification flag and consumes the code in one write.
func (u *UserStore) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"email_verified": true, "otp_code": nil, "otp_expiry": nil, "updated_at": time.Now().UTC()}).Error
}

func (u *UserStore) UpdateProfile(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrEmailTaken
	}
	return err
}

func (u *UserStore) SetProviderApplication(ctx context.Context, userID uuid.UUID, state domain.ApplicationState, role domain.Role, address string) error {
	fields := map[string]any{
		"provider_application": state,
		"role":                 role,
		"updated_at":           time.Now().UTC(),
	}
	if address != "" {
		fields["address"] = address
	}
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}

func (u *UserStore) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).
		Order("created_at").
		Find(&users).Error
	return users, err
}

func (u *UserStore) ListByApplication(ctx context.Context, state domain.ApplicationState) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).
		Where("provider_application = ?", state).
		Order("updated_at").
		Find(&users).Error
	return users, err
}

// --- cart ---

func (u *UserStore) Cart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := u.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&items).Error
	return items, err
}

// AddToCart inserts the product with quantity 1 or bumps the existing row.
func (u *UserStore) AddToCart(ctx context.Context, userID, productID uuid.UUID) error {
	now := time.Now().UTC()
	item := domain.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return u.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + 1"),
			"updated_at": now,
		}),
	}).Create(&item).Error
}

func (u *UserStore) SetCartQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	res := u.db.WithContext(ctx).Model(&domain.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotInCart
	}
	return nil
}

func (u *UserStore) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	return u.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.CartItem{}).Error
}

func (u *UserStore) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return u.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

// --- favourites ---

func (u *UserStore) Favourites(ctx context.Context, userID uuid.UUID) ([]domain.Favourite, error) {
	var favs []domain.Favourite
	err := u.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&favs).Error
	return favs, err
}

func (u *UserStore) AddFavourite(ctx context.Context, userID, productID uuid.UUID) error {
	fav := domain.Favourite{UserID: userID, ProductID: productID, CreatedAt: time.Now().UTC()}
	if err := u.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyFavourite
		}
		return err
	}
	return nil
}

func (u *UserStore) RemoveFavourite(ctx context.Context, userID, productID uuid.UUID) error {
	return u.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.Favourite{}).Error
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
