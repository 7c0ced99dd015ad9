package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Credential kinds carried in the "kind" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// ErrInvalidCredential is returned for any verification failure: bad
// signature, expiry breach, wrong kind, malformed token. Verification
// fails closed; there is no partial success.
var ErrInvalidCredential = errors.New("invalid credential")

// Issuer mints and verifies app-level session credentials. It is
// stateless: issued credentials cannot be revoked server-side, logout
// only instructs the client to discard them.
type Issuer struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewIssuer(secret string, accessExpiry, refreshExpiry time.Duration) *Issuer {
	return &Issuer{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// IssueAccess mints a short-lived access credential bound to identity.
func (i *Issuer) IssueAccess(identity string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity,
		"kind": KindAccess,
		"exp":  time.Now().Add(i.accessExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// IssueRefresh mints a long-lived refresh credential bound to identity.
func (i *Issuer) IssueRefresh(identity string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  identity,
		"kind": KindRefresh,
		"jti":  uuid.New().String(),
		"exp":  time.Now().Add(i.refreshExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature, expiry and kind, returning the identity.
func (i *Issuer) Verify(tokenString, kind string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return i.secret, nil
	})

	if err != nil || !token.Valid {
		return "", ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredential
	}

	if tokenKind, _ := claims["kind"].(string); tokenKind != kind {
		return "", ErrInvalidCredential
	}

	identity, ok := claims["sub"].(string)
	if !ok || identity == "" {
		return "", ErrInvalidCredential
	}

	return identity, nil
}

// Refresh mints a new access credential from a valid refresh credential.
// The refresh credential itself is never extended or re-issued; when its
// fixed expiry passes the user must re-authenticate.
func (i *Issuer) Refresh(refreshToken string) (string, error) {
	identity, err := i.Verify(refreshToken, KindRefresh)
	if err != nil {
		return "", err
	}
	return i.IssueAccess(identity)
}
