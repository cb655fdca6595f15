package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/task-api/internal/domain"
	"github.com/ErlanBelekov/task-api/internal/email"
	"github.com/ErlanBelekov/task-api/internal/metrics"
	"github.com/ErlanBelekov/task-api/internal/password"
	"github.com/ErlanBelekov/task-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultCodeTTL  = 10 * time.Minute
	defaultTokenTTL = time.Hour

	codeMin   = 100000
	codeRange = 900000
)

type passwordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AuthOptions carries the secrets and lifetimes the auth flow depends on.
// Zero durations fall back to 10 minutes (codes) and 1 hour (tokens).
type AuthOptions struct {
	JWTKey   []byte
	CodeTTL  time.Duration
	TokenTTL time.Duration
	Now      func() time.Time
}

type AuthUsecase struct {
	users    repository.UserRepository
	codes    repository.VerificationStore
	email    email.Sender
	hasher   passwordHasher
	jwtKey   []byte
	codeTTL  time.Duration
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthUsecase(
	users repository.UserRepository,
	codes repository.VerificationStore,
	emailSender email.Sender,
	hasher passwordHasher,
	opts AuthOptions,
) *AuthUsecase {
	u := &AuthUsecase{
		users:    users,
		codes:    codes,
		email:    emailSender,
		hasher:   hasher,
		jwtKey:   opts.JWTKey,
		codeTTL:  opts.CodeTTL,
		tokenTTL: opts.TokenTTL,
		now:      opts.Now,
	}
	if u.codeTTL <= 0 {
		u.codeTTL = defaultCodeTTL
	}
	if u.tokenTTL <= 0 {
		u.tokenTTL = defaultTokenTTL
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

type sessionClaims struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateCode returns a uniformly random six-digit code.
func GenerateCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	return codeMin + int(n.Int64()), nil
}

// RequestVerification stores a fresh code for an unregistered email and mails it.
// The stored entry is kept even when delivery fails.
func (u *AuthUsecase) RequestVerification(ctx context.Context, emailAddr string) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	taken, err := u.emailTaken(ctx, emailAddr)
	if err != nil {
		metrics.VerificationCodesTotal.WithLabelValues("error").Inc()
		return err
	}
	if taken {
		metrics.VerificationCodesTotal.WithLabelValues("conflict").Inc()
		return domain.ErrEmailTaken
	}

	code, err := GenerateCode()
	if err != nil {
		return err
	}

	entry := domain.VerificationEntry{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: u.now().Add(u.codeTTL),
	}
	if err := u.codes.Put(ctx, entry); err != nil {
		metrics.VerificationCodesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("store verification code: %w", err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf(
		`<p>Your verification code is:</p><p><strong>%06d</strong></p><p>It expires in %d minutes.</p>`,
		code, int(u.codeTTL.Minutes()),
	)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		metrics.VerificationCodesTotal.WithLabelValues("delivery_failed").Inc()
		return fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, err)
	}

	metrics.VerificationCodesTotal.WithLabelValues("sent").Inc()
	return nil
}

// ValidateCode succeeds only when submitted is numeric and matches a stored,
// unexpired code for the email.
func (u *AuthUsecase) ValidateCode(ctx context.Context, emailAddr, submitted string) error {
	code, err := strconv.Atoi(strings.TrimSpace(submitted))
	if err != nil {
		return domain.ErrInvalidCode
	}

	entry, err := u.codes.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("load verification code: %w", err)
	}

	if entry.Code != code || entry.Expired(u.now()) {
		return domain.ErrInvalidCode
	}
	return nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a verified user for an email holding an unexpired
// verification entry, then clears that entry.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := domain.NormalizeEmail(input.Email)
	if name == "" || emailAddr == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	entry, err := u.codes.Get(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			metrics.RegistrationsTotal.WithLabelValues("not_verified").Inc()
			return nil, domain.ErrNotVerified
		}
		return nil, fmt.Errorf("load verification code: %w", err)
	}
	if entry.Expired(u.now()) {
		metrics.RegistrationsTotal.WithLabelValues("not_verified").Inc()
		return nil, domain.ErrNotVerified
	}

	taken, err := u.emailTaken(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailTaken
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := u.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		IsVerified:   true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := u.codes.Delete(ctx, emailAddr); err != nil {
		return nil, fmt.Errorf("clear verification code: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return created, nil
}

// Login checks credentials and returns a signed session token.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, plain string) (string, error) {
	user, err := u.users.FindByEmail(ctx, domain.NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !user.IsVerified {
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return "", domain.ErrUnverified
	}

	if err := u.hasher.Compare(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			metrics.LoginsTotal.WithLabelValues("bad_credentials").Inc()
			return "", domain.ErrBadCredentials
		}
		return "", err
	}

	if len(u.jwtKey) == 0 {
		return "", domain.ErrSigningKeyMissing
	}

	now := u.now()
	claims := sessionClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(u.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return signed, nil
}

// VerifyToken validates signature, algorithm and expiry, returning the session it carries.
func (u *AuthUsecase) VerifyToken(_ context.Context, raw string) (*domain.Session, error) {
	if raw == "" || len(u.jwtKey) == 0 {
		return nil, domain.ErrUnauthorized
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return u.jwtKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(u.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Session{
		UserID:    claims.UserID,
		Subject:   claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (u *AuthUsecase) emailTaken(ctx context.Context, emailAddr string) (bool, error) {
	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check email: %w", err)
}
