package impl

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/observability/metrics"
	"github.com/tupatil-17/easy-shop/internal/service"
)

// TokenConfig carries the signing material for both token kinds. Access
// and refresh secrets are distinct on purpose: a refresh token presented
// as an access token must fail verification.
type TokenConfig struct {
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AccessSecret  []byte
	RefreshSecret []byte
}

type TokenServiceJWT struct {
	cfg TokenConfig
}

func NewTokenServiceJWT(cfg TokenConfig) *TokenServiceJWT {
	return &TokenServiceJWT{cfg: cfg}
}

type userClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (t *TokenServiceJWT) IssuePair(ctx context.Context, user *domain.User) (*dto.TokenResponse, error) {
	access, err := t.sign(user, t.cfg.AccessTTL, t.cfg.AccessSecret)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	refresh, err := t.sign(user, t.cfg.RefreshTTL, t.cfg.RefreshSecret)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("login", "success").Inc()
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceJWT) RefreshAccess(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := t.VerifyRefresh(refreshToken)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "denied").Inc()
		return nil, err
	}
	// The refreshed access token carries the role the refresh token was
	// minted with; a role change takes effect at the next login.
	user := &domain.User{ID: claims.UserID, Role: claims.Role}
	access, err := t.sign(user, t.cfg.AccessTTL, t.cfg.AccessSecret)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "error").Inc()
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues("refresh", "success").Inc()
	return &dto.RefreshResponse{
		AccessToken: access,
		ExpiresIn:   int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

func (t *TokenServiceJWT) VerifyAccess(token string) (*service.AuthClaims, error) {
	return t.verify(token, t.cfg.AccessSecret)
}

func (t *TokenServiceJWT) VerifyRefresh(token string) (*service.AuthClaims, error) {
	return t.verify(token, t.cfg.RefreshSecret)
}

func (t *TokenServiceJWT) sign(user *domain.User, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now().UTC()
	claims := userClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify maps every failure mode (bad signature, expiry, wrong issuer,
// garbled subject) to domain.ErrUnauthorized so the transport layer never
// leaks which check tripped.
func (t *TokenServiceJWT) verify(token string, secret []byte) (*service.AuthClaims, error) {
	var claims userClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return secret, nil
	}, jwt.WithIssuer(t.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &service.AuthClaims{
		UserID: userID,
		Role:   domain.Role(claims.Role),
	}, nil
}
