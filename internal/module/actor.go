package module

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

const authorization = "Authorization"

var (
	ErrMissingActor = errors.New("missing actor")
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("access token verification failed")
)

// TokenVerifier maps an access token to the name of the actor it was issued to.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// StaticTokens verifies tokens against a fixed token to actor table.
type StaticTokens map[string]string

func (s StaticTokens) VerifyToken(ctx context.Context, token string) (string, error) {
	var actor string
	for known, name := range s {
		if subtle.ConstantTimeCompare([]byte(known), []byte(token)) == 1 {
			actor = name
		}
	}
	if actor == "" {
		return "", ErrInvalidToken
	}

	return actor, nil
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying the actor name.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFromContext returns the actor name stored by RequireActor.
func ActorFromContext(ctx context.Context) (string, error) {
	name, ok := ctx.Value(actorKey{}).(string)
	if !ok || name == "" {
		return "", ErrMissingActor
	}

	return name, nil
}

func accessTokenFromHeader(r *http.Request) (string, error) {
	header := r.Header.Get(authorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	return token, nil
}

// RequireActor authenticates the bearer token and stores the actor it
// belongs to in the request context. Rights are checked by the handler.
func RequireActor(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := accessTokenFromHeader(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			if verifier == nil {
				http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}
			name, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), name)))
		})
	}
}
