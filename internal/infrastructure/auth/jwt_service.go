package auth

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// jwtClaims is the wire shape of issued tokens. The session id travels as the
// registered subject; account id, email and role are convenience claims.
type jwtClaims struct {
	AccountID string      `json:"account_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService using RS256. The private key
// signs; verification needs only the public key, so verification-only
// deployments never hold signing capability.
type JWTServiceImpl struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a token service from PEM-encoded RSA keys.
func NewJWTService(privateKeyPEM, publicKeyPEM []byte, issuer string, accessTTL, refreshTTL time.Duration) (domain.TokenService, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	return &JWTServiceImpl{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// NewJWTServiceFromFiles reads the key pair from PEM files.
func NewJWTServiceFromFiles(privateKeyFile, publicKeyFile, issuer string, accessTTL, refreshTTL time.Duration) (domain.TokenService, error) {
	privateKeyPEM, err := os.ReadFile(privateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key file %s: %w", privateKeyFile, err)
	}
	publicKeyPEM, err := os.ReadFile(publicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file %s: %w", publicKeyFile, err)
	}
	return NewJWTService(privateKeyPEM, publicKeyPEM, issuer, accessTTL, refreshTTL)
}

// SignAccessToken implements domain.TokenService
func (j *JWTServiceImpl) SignAccessToken(claims *domain.TokenClaims) (string, error) {
	return j.sign(claims, j.accessTTL)
}

// SignRefreshToken implements domain.TokenService
func (j *JWTServiceImpl) SignRefreshToken(claims *domain.TokenClaims) (string, error) {
	return j.sign(claims, j.refreshTTL)
}

func (j *JWTServiceImpl) sign(claims *domain.TokenClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	wire := &jwtClaims{
		AccountID: claims.AccountID,
		Email:     claims.Email,
		Role:      claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   claims.SessionID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, wire)
	return token.SignedString(j.privateKey)
}

// VerifyToken implements domain.TokenService. It fails with ErrTokenInvalid
// on a bad signature, malformed input or an expired token; there is no
// silent fallback.
func (j *JWTServiceImpl) VerifyToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.publicKey, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	wire, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims := &domain.TokenClaims{
		SessionID: wire.Subject,
		AccountID: wire.AccountID,
		Email:     wire.Email,
		Role:      wire.Role,
	}
	if wire.IssuedAt != nil {
		claims.IssuedAt = wire.IssuedAt.Unix()
	}
	if wire.ExpiresAt != nil {
		claims.ExpiresAt = wire.ExpiresAt.Unix()
	}

	return claims, nil
}

// AccessTTL implements domain.TokenService
func (j *JWTServiceImpl) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL implements domain.TokenService
func (j *JWTServiceImpl) RefreshTTL() time.Duration { return j.refreshTTL }
