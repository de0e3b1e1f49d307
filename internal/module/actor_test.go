package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokens(t *testing.T) {
	tokens := StaticTokens{"s3cret-admin-token": "Admin"}

	name, err := tokens.VerifyToken(context.Background(), "s3cret-admin-token")
	require.NoError(t, err)
	assert.Equal(t, "Admin", name)

	_, err = tokens.VerifyToken(context.Background(), "s3cret-admin-toke")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = StaticTokens{}.VerifyToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireActor(t *testing.T) {
	tokens := StaticTokens{"s3cret-admin-token": "Admin"}

	tests := []struct {
		name     string
		header   string
		verifier TokenVerifier
		status   int
		actor    string
	}{
		{name: "valid token", header: "Bearer s3cret-admin-token", verifier: tokens, status: http.StatusNoContent, actor: "Admin"},
		{name: "lowercase scheme", header: "bearer s3cret-admin-token", verifier: tokens, status: http.StatusNoContent, actor: "Admin"},
		{name: "missing header", verifier: tokens, status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic s3cret-admin-token", verifier: tokens, status: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer  ", verifier: tokens, status: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer guessed", verifier: tokens, status: http.StatusUnauthorized},
		{name: "bare actor name", header: "Admin", verifier: tokens, status: http.StatusUnauthorized},
		{name: "no verifier", header: "Bearer s3cret-admin-token", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequireActor(tt.verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				name, err := ActorFromContext(r.Context())
				require.NoError(t, err)
				seen = name
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			req.Header.Set("X-Actor", "Admin")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.actor, seen)
		})
	}
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, ErrMissingActor)

	name, err := ActorFromContext(WithActor(context.Background(), "Admin"))
	require.NoError(t, err)
	assert.Equal(t, "Admin", name)
}
