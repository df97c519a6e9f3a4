package domain

import "time"

type Role string

const (
	RoleUser            Role = "user"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

// ApplicationState tracks a user's request to become a service provider.
type ApplicationState string

const (
	ApplicationNone     ApplicationState = "none"
	ApplicationPending  ApplicationState = "pending"
	ApplicationApproved ApplicationState = "approved"
	ApplicationRejected ApplicationState = "rejected"
)

type User struct {
	ID             UserID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	Username       string `gorm:"type:text;not null" json:"username"`
	PasswordHash   []byte `gorm:"type:bytea;not null" json:"-"`
	PasswordSalt   []byte `gorm:"type:bytea;not null" json:"-"`
	PasswordParams []byte `gorm:"type:jsonb;not null" json:"-"`
	Role           Role   `gorm:"type:text;not null;default:user" json:"role"`
	Address        string `gorm:"type:text" json:"address,omitempty"`

	EmailVerified bool `gorm:"not null;default:false" json:"emailVerified"`
	// OTPCode and OTPExpiry are both set or both NULL; a fresh login
	// overwrites whatever code was outstanding.
	OTPCode   *string    `gorm:"type:text" json:"-"`
	OTPExpiry *time.Time `json:"-"`

	ProviderApplication ApplicationState `gorm:"type:text;not null;default:none" json:"providerApplication"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type CartItem struct {
	UserID    UserID    `gorm:"type:uuid;primaryKey" json:"userId"`
	ProductID ProductID `gorm:"type:uuid;primaryKey" json:"productId"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string { return "cart_items" }

type Favourite struct {
	UserID    UserID    `gorm:"type:uuid;primaryKey" json:"userId"`
	ProductID ProductID `gorm:"type:uuid;primaryKey" json:"productId"`
	CreatedAt time.Time `gorm:"not null" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Favourite) TableName() string { return "favourites" }
