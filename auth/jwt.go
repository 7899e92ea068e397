package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of every issued token
const TokenTTL = time.Hour

var (
	// ErrMissingSecret is returned when an issuer or verifier is built without a secret
	ErrMissingSecret = errors.New("token secret is empty")

	// ErrInvalidToken is returned for malformed tokens and signature mismatches
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Payload is the caller-supplied identity object signed into a token
type Payload map[string]interface{}

// Email returns the payload's email field when it is a string
func (p Payload) Email() string {
	email, _ := p["email"].(string)
	return email
}

// Claims is the decoded identity of a verified token
type Claims struct {
	Email     string
	Fields    Payload // All signed fields except exp and iat
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issuer signs identity payloads with HS256
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer for secret
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Issuer{secret: []byte(secret), ttl: TokenTTL, now: time.Now}, nil
}

// Issue signs payload verbatim, overriding exp and iat
func (i *Issuer) Issue(payload Payload) (string, error) {
	now := i.now()

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(i.ttl))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Verifier validates tokens produced by an Issuer with the same secret
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier creates a verifier for secret
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Verify checks signature and expiry and returns the decoded claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	mc := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims := &Claims{Fields: Payload{}}
	for k, val := range mc {
		if k == "exp" || k == "iat" {
			continue
		}
		claims.Fields[k] = val
	}
	claims.Email = claims.Fields.Email()

	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	return claims, nil
}
