package auth

import (
	"context"
	"errors"
	"time"

	"filevault-backend/config"
	"filevault-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserStore is the credential-store contract the service needs.
// Lookups return (nil, nil) when no row matches.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenStore is the refresh-token ledger contract.
type TokenStore interface {
	Insert(ctx context.Context, token *models.RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	Rotate(ctx context.Context, oldID string, next *models.RefreshToken) (bool, error)
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type Service struct {
	users  UserStore
	tokens TokenStore
	cfg    *config.AuthConfig
}

func NewService(users UserStore, tokens TokenStore, cfg *config.AuthConfig) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
	}
}

// Register creates a new account. The password hash never leaves this
// package; callers get the public user projection only.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if len(password) < s.cfg.PasswordMinLength {
		return nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown
// email and wrong password both come back as ErrInvalidCredentials so
// the response cannot be used to enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a bcrypt comparison anyway to keep the timing profile
		// close to the wrong-password path.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO7Z9O5LPCFDiQSKu6mionVmVPcVV0d8K"),
			[]byte(password),
		)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(ctx, user.ID)
}

// Authenticate resolves an access token to its user. Side-effect free;
// runs on every protected request.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := VerifyToken(accessToken, TokenTypeAccess, s.cfg)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Token outlived the account.
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// Refresh rotates a refresh token: one successful rotation per raw
// token, ever. Presenting an already-consumed token is treated as
// evidence of theft and revokes every outstanding token for that user.
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error) {
	claims, err := VerifyToken(rawRefreshToken, TokenTypeRefresh, s.cfg)
	if err != nil {
		return nil, ErrInvalidToken
	}

	record, err := s.tokens.FindByHash(ctx, DigestToken(rawRefreshToken))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidToken
	}

	if record.Revoked {
		log.Warn().
			Str("user_id", record.UserID).
			Msg("Revoked refresh token replayed, revoking all tokens for user")
		if err := s.tokens.RevokeAllForUser(ctx, record.UserID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidToken
	}

	if time.Now().After(record.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	// Mint the replacement pair before touching the ledger so a failure
	// here leaves the old token untouched and usable.
	accessToken, _, err := MintAccessToken(claims.Subject, s.cfg)
	if err != nil {
		return nil, err
	}
	refreshToken, tokenID, refreshExpiry, err := MintRefreshToken(claims.Subject, s.cfg)
	if err != nil {
		return nil, err
	}

	next := &models.RefreshToken{
		ID:        tokenID,
		UserID:    record.UserID,
		TokenHash: DigestToken(refreshToken),
		ExpiresAt: refreshExpiry,
		CreatedAt: time.Now(),
	}

	rotated, err := s.tokens.Rotate(ctx, record.ID, next)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// A concurrent refresh with the same token won the race; this
		// presentation is a reuse by definition.
		log.Warn().
			Str("user_id", record.UserID).
			Msg("Lost refresh rotation race, revoking all tokens for user")
		if err := s.tokens.RevokeAllForUser(ctx, record.UserID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidToken
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.AccessTTLSeconds,
	}, nil
}

// Logout revokes the refresh token's ledger record. It never fails from
// the caller's perspective: the goal state is "token unusable", which an
// invalid or unknown token already satisfies.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) error {
	if _, err := VerifyToken(rawRefreshToken, TokenTypeRefresh, s.cfg); err != nil {
		return nil
	}

	record, err := s.tokens.FindByHash(ctx, DigestToken(rawRefreshToken))
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	return s.tokens.Revoke(ctx, record.ID)
}

// RevokeAllForUser force-invalidates every refresh token for a user
// (logout everywhere). Exposed for the admin CLI.
func (s *Service) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *Service) issuePair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, _, err := MintAccessToken(userID, s.cfg)
	if err != nil {
		return nil, err
	}

	refreshToken, tokenID, refreshExpiry, err := MintRefreshToken(userID, s.cfg)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		ID:        tokenID,
		UserID:    userID,
		TokenHash: DigestToken(refreshToken),
		ExpiresAt: refreshExpiry,
		CreatedAt: time.Now(),
	}
	if err := s.tokens.Insert(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.AccessTTLSeconds,
	}, nil
}
