package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// missing subject.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the access-token payload. The user identity travels in the
// standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier validates access tokens issued by the auth subsystem. Token
// issuance is out of scope here; the messaging core only needs
// token -> caller identity.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier with an explicit secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// NewVerifierFromEnv constructs a Verifier using the JWT_ACCESS_SECRET
// environment variable.
func NewVerifierFromEnv() (*Verifier, error) {
	secret := os.Getenv("JWT_ACCESS_SECRET")
	if secret == "" {
		return nil, errors.New("auth: JWT_ACCESS_SECRET environment variable is not set")
	}
	return NewVerifier([]byte(secret)), nil
}

// Verify parses and validates the token and returns the user ID it carries.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
