package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warriorhub/internal/domain"
)

type fakeVerifier struct {
	actors map[string]domain.Actor
}

func (f *fakeVerifier) Verify(token string) (domain.Actor, error) {
	if a, ok := f.actors[token]; ok {
		return a, nil
	}
	return domain.Anonymous, fmt.Errorf("bad token")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&testWriter{}, nil))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func actorEcho(t *testing.T, got *domain.Actor) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		*got = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestRequireAuth(t *testing.T) {
	verifier := &fakeVerifier{actors: map[string]domain.Actor{
		"good": {UserID: 5, Role: domain.RoleOrganizer},
	}}
	var got domain.Actor
	handler := RequireAuth(verifier, testLogger())(actorEcho(t, &got))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantActor  domain.Actor
	}{
		{"valid token", "Bearer good", http.StatusOK, domain.Actor{UserID: 5, Role: domain.RoleOrganizer}},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, domain.Anonymous},
		{"missing header", "", http.StatusUnauthorized, domain.Anonymous},
		{"wrong scheme", "Basic Zm9v", http.StatusUnauthorized, domain.Anonymous},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, domain.Anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Anonymous
			req := httptest.NewRequest(http.MethodGet, "/events/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantActor, got)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	verifier := &fakeVerifier{actors: map[string]domain.Actor{
		"good": {UserID: 9, Role: domain.RoleUser},
	}}
	var got domain.Actor
	handler := OptionalAuth(verifier, testLogger())(actorEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.Actor{UserID: 9, Role: domain.RoleUser}, got)

	// No token and a bad token both resolve to the anonymous actor.
	for _, header := range []string{"", "Bearer forged"} {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.Anonymous, got)
	}
}

func TestActorFromContext_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, domain.Anonymous, ActorFromContext(req.Context()))
}
