package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrMissingUserID = errors.New("missing user_id in claims")
	ErrMissingRole   = errors.New("missing role in claims")
)

// Claims represents custom JWT claims. HomeShopID is empty for a
// SUPER_ADMIN with no home shop.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	HomeShopID string `json:"home_shop_id,omitempty"`
}

// JWTService handles JWT token operations
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateToken issues a signed token for the given credential
func (s *JWTService) GenerateToken(cred identity.Credential, username string) (string, time.Time, error) {
	if username == "" {
		username = cred.Username
	}
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   cred.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   cred.UserID.String(),
		Username: username,
		Role:     cred.Role.String(),
	}
	if cred.HomeShopID != uuid.Nil {
		claims.HomeShopID = cred.HomeShopID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, returning the caller credential
func (s *JWTService) ValidateToken(tokenString string) (identity.Credential, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return identity.Credential{}, ErrExpiredToken
		}
		return identity.Credential{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return identity.Credential{}, ErrInvalidClaims
	}
	return credentialFromClaims(claims)
}

func credentialFromClaims(claims *Claims) (identity.Credential, error) {
	if claims.UserID == "" {
		return identity.Credential{}, ErrMissingUserID
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Credential{}, ErrInvalidClaims
	}

	role := identity.Role(claims.Role)
	if !role.IsValid() {
		return identity.Credential{}, ErrMissingRole
	}

	cred := identity.Credential{UserID: userID, Username: claims.Username, Role: role}
	if claims.HomeShopID != "" {
		shopID, err := uuid.Parse(claims.HomeShopID)
		if err != nil {
			return identity.Credential{}, ErrInvalidClaims
		}
		cred.HomeShopID = shopID
	}
	return cred, nil
}
