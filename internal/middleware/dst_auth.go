package middleware

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
	"github.com/fhuszti/medias-conversion-ms/internal/handler/api"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenIssuer   = "core"
	tokenAudience = "conversions"
	clockSkew     = 30 * time.Second
)

var (
	errMissingBearer  = errors.New("missing bearer token")
	errBadIssuer      = errors.New("bad issuer")
	errBadAudience    = errors.New("bad audience")
	errExpired        = errors.New("token expired")
	errIssuedLater    = errors.New("invalid iat")
	errMissingSubject = errors.New("missing sub")
)

// dstClaims are the claims core puts in a delegated service token.
type dstClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Valid replaces the registered-claims check: exp is mandatory and iat may
// run ahead of the local clock by clockSkew.
func (c dstClaims) Valid() error {
	now := time.Now()
	switch {
	case !c.VerifyIssuer(tokenIssuer, true):
		return errBadIssuer
	case !c.VerifyAudience(tokenAudience, true):
		return errBadAudience
	case !c.VerifyExpiresAt(now, true):
		return errExpired
	case c.IssuedAt != nil && c.IssuedAt.After(now.Add(clockSkew)):
		return errIssuedLater
	case c.Subject == "":
		return errMissingSubject
	}
	return nil
}

type tokenVerifier struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

func newTokenVerifier(publicKeyPEM string) (*tokenVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}
	return &tokenVerifier{
		key:    key,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name})),
	}, nil
}

func (v *tokenVerifier) verify(authorization string) (*dstClaims, error) {
	raw, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || raw == "" {
		return nil, errMissingBearer
	}

	claims := &dstClaims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// rejection is the message returned to the caller for a refused token.
func rejection(err error) string {
	for _, known := range []error{errMissingBearer, errBadIssuer, errBadAudience, errExpired, errIssuedLater, errMissingSubject} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "unauthorized"
}

// WithDSTAuth validates a short-lived Bearer JWT issued by core for this
// service. An empty key disables authentication.
func WithDSTAuth(jwtPublicKeyPEM string) func(http.Handler) http.Handler {
	if jwtPublicKeyPEM == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	verifier, err := newTokenVerifier(jwtPublicKeyPEM)
	if err != nil {
		panic(fmt.Sprintf("invalid Core RSA public key: %v", err))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifier.verify(r.Header.Get("Authorization"))
			if err != nil {
				api.WriteError(r.Context(), w, http.StatusUnauthorized, rejection(err), nil)
				return
			}

			ctx := api_context.WithAuthUser(r.Context(), claims.Subject, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
