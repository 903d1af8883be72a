package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification tokens are short-lived signed assertions proving control of an
// email address. They are single-purpose and stateless: there is no
// server-side revocation, so a token stays valid until expiry even if the
// underlying record changes. That exposure window is accepted.

const DefaultTTL = 5 * time.Minute

// Typed verification failures. Callers treat every failure the same way
// (reject the request) but log the distinguished kind.
var (
	ErrExpired      = errors.New("token has expired")
	ErrBadSignature = errors.New("token signature is invalid")
	ErrMalformed    = errors.New("token is malformed")
	ErrWrongIssuer  = errors.New("token issuer does not match")
)

// Claims carried by a verification token.
// Issuer is the user id, Subject the email being proven.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the issuer claim back into a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Issuer)
	if err != nil {
		return uuid.Nil, ErrMalformed
	}
	return id, nil
}

// Email returns the address the token asserts control of.
func (c *Claims) Email() string {
	return c.Subject
}

// Service issues and verifies RS256-signed verification tokens.
type Service struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	timeFunc   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the default 5-minute token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithTimeFunc overrides the clock. Used in tests to pin expiry boundaries.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Service) { s.timeFunc = fn }
}

// New builds a Service from PEM-encoded RSA keys.
func New(privateKeyPEM, publicKeyPEM []byte, opts ...Option) (*Service, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	s := &Service{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        DefaultTTL,
		timeFunc:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the keypair from PEM files on disk.
func Load(privateKeyPath, publicKeyPath string, opts ...Option) (*Service, error) {
	privatePEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	publicPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	return New(privatePEM, publicPEM, opts...)
}

// Issue signs a claim set {iss=subjectID, sub=email, iat=now, exp=now+ttl}.
func (s *Service) Issue(subjectID uuid.UUID, email string) (string, error) {
	now := s.timeFunc()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    subjectID.String(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the claims.
// Failures come back as one of the typed sentinels above.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrMalformed
		}
	}

	if !parsed.Valid {
		return nil, ErrBadSignature
	}

	return claims, nil
}

// VerifyIssuedBy verifies the token and additionally checks it was issued for
// the expected user. Returns ErrWrongIssuer on mismatch.
func (s *Service) VerifyIssuedBy(tokenString string, expected uuid.UUID) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	issuer, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	if issuer != expected {
		return nil, ErrWrongIssuer
	}
	return claims, nil
}
