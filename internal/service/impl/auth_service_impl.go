package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/dto"
	"github.com/tupatil-17/easy-shop/internal/events"
	"github.com/tupatil-17/easy-shop/internal/notify"
	"github.com/tupatil-17/easy-shop/internal/observability/metrics"
	"github.com/tupatil-17/easy-shop/internal/service"
)

// userStore is the slice of the store layer the auth flow needs.
type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetOTP(ctx context.Context, userID uuid.UUID, code string, expiry time.Time) error
	ClearOTP(ctx context.Context, userID uuid.UUID) error
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

// mailDispatcher decouples code delivery from the request path.
type mailDispatcher interface {
	Dispatch(ctx context.Context, msg notify.Message) error
}

type AuthServiceImpl struct {
	users     userStore
	passwords service.PasswordService
	tokens    service.TokenService
	mail      mailDispatcher
	otpTTL    time.Duration
	logger    *slog.Logger
}

func NewAuthServiceImpl(users userStore, passwords service.PasswordService, tokens service.TokenService, mail mailDispatcher, otpTTL time.Duration, logger *slog.Logger) *AuthServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthServiceImpl{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		mail:      mail,
		otpTTL:    otpTTL,
		logger:    logger,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := r.Validate(); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, salt, params, err := a.passwords.Hash(r.Password)
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	expiry := time.Now().UTC().Add(a.otpTTL)

	user := &domain.User{
		Email:          r.Email,
		Username:       r.Username,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		PasswordParams: params,
		Role:           domain.RoleUser,
		OTPCode:        &code,
		OTPExpiry:      &expiry,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.AuthRegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.AuthRegistrationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	// Only after the row exists: a mail for an account that failed to
	// persist would be confusing, and a full queue must not undo signup.
	a.sendOTP(ctx, user, code, events.OTPRegister)

	metrics.AuthRegistrationsTotal.WithLabelValues("success").Inc()
	a.logger.Info("user registered", "user_id", user.ID)
	return &dto.RegisterResponse{
		UserID:                    user.ID.String(),
		RequiresEmailVerification: true,
	}, nil
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, r dto.VerifyEmailRequest) (*dto.TokenResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	user, err := a.lookupForOTP(ctx, r.UserID)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("register", "error").Inc()
		return nil, err
	}
	if user.EmailVerified {
		metrics.OTPVerificationsTotal.WithLabelValues("register", "denied").Inc()
		return nil, domain.ErrAlreadyVerified
	}
	if err := checkOTP(user, r.OTP); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("register", "denied").Inc()
		return nil, err
	}
	if err := a.users.MarkVerified(ctx, user.ID); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("register", "error").Inc()
		return nil, err
	}
	user.EmailVerified = true

	metrics.OTPVerificationsTotal.WithLabelValues("register", "success").Inc()
	a.logger.Info("email verified", "user_id", user.ID)
	return a.tokens.IssuePair(ctx, user)
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := r.Validate(); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	user, err := a.users.GetByEmail(ctx, r.Email)
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("denied").Inc()
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !a.passwords.Verify(r.Password, user.PasswordHash, user.PasswordSalt, user.PasswordParams) {
		metrics.AuthLoginsTotal.WithLabelValues("denied").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	// Admins are provisioned out of band and skip the verification gate.
	if !user.EmailVerified && user.Role != domain.RoleAdmin {
		metrics.AuthLoginsTotal.WithLabelValues("denied").Inc()
		return nil, domain.ErrEmailNotVerified
	}

	code, err := generateOTP()
	if err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	// A retried login invalidates the previous code outright.
	if err := a.users.SetOTP(ctx, user.ID, code, time.Now().UTC().Add(a.otpTTL)); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	a.sendOTP(ctx, user, code, events.OTPLogin)

	metrics.AuthLoginsTotal.WithLabelValues("success").Inc()
	a.logger.Info("login first factor passed", "user_id", user.ID)
	return &dto.LoginResponse{UserID: user.ID.String(), OTPRequired: true}, nil
}

func (a *AuthServiceImpl) VerifyLoginOTP(ctx context.Context, r dto.VerifyLoginOTPRequest) (*dto.TokenResponse, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	user, err := a.lookupForOTP(ctx, r.UserID)
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}
	// A residual registration code must not complete a login; the account
	// has to pass email verification first. Admins skip the gate as at
	// the first factor.
	if !user.EmailVerified && user.Role != domain.RoleAdmin {
		metrics.OTPVerificationsTotal.WithLabelValues("login", "denied").Inc()
		return nil, domain.ErrEmailNotVerified
	}
	if err := checkOTP(user, r.OTP); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("login", "denied").Inc()
		return nil, err
	}
	if err := a.users.ClearOTP(ctx, user.ID); err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues("login", "error").Inc()
		return nil, err
	}

	metrics.OTPVerificationsTotal.WithLabelValues("login", "success").Inc()
	a.logger.Info("login completed", "user_id", user.ID)
	return a.tokens.IssuePair(ctx, user)
}

func (a *AuthServiceImpl) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	if refreshToken == "" {
		return nil, domain.Invalid("refresh token is required")
	}
	return a.tokens.RefreshAccess(ctx, refreshToken)
}

func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (a *AuthServiceImpl) lookupForOTP(ctx context.Context, rawID string) (*domain.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return a.users.GetByID(ctx, id)
}

// sendOTP queues the code mail; delivery failures are logged but never
// surfaced, the user can re-trigger by logging in again.
func (a *AuthServiceImpl) sendOTP(ctx context.Context, user *domain.User, code string, purpose events.OTPPurpose) {
	evt := events.OTPIssued{
		UserID:  user.ID.String(),
		Email:   user.Email,
		Code:    code,
		Purpose: purpose,
		At:      time.Now().UTC(),
	}
	if err := a.mail.Dispatch(ctx, notify.OTPMessage(evt)); err != nil {
		a.logger.Error("otp mail not queued", "user_id", user.ID, "purpose", purpose, "error", err)
	}
}

// checkOTP compares the submitted code against the stored one. Expiry is
// checked before the value so an expired-but-correct code reports expiry.
func checkOTP(user *domain.User, submitted string) error {
	if user.OTPCode == nil || user.OTPExpiry == nil {
		return domain.ErrInvalidOTP
	}
	if time.Now().UTC().After(*user.OTPExpiry) {
		return domain.ErrOTPExpired
	}
	if *user.OTPCode != submitted {
		return domain.ErrInvalidOTP
	}
	return nil
}
