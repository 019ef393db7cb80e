// File: internal/apiclient/client_test.go
package apiclient

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoapply/autoapply-cli/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.APIConfig{
		BaseURL:           srv.URL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}, nil)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123"}`))
	}))

	token, err := c.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad credentials"}`))
	}))

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "bad credentials")
}

func TestProfile(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/profile/42", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"fullName":"  Ada Lovelace ","email":"ada@example.com","phone":"555-0100"}`))
	}))

	p, err := c.Profile(context.Background(), "tok-123", "42")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.FullName, "profile values are normalized")
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name   string
		status int
		valid  bool
	}{
		{"accepted", http.StatusOK, true},
		{"rejected", http.StatusUnauthorized, false},
		{"authenticated but missing profile", http.StatusNotFound, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			valid, err := c.ValidateToken(context.Background(), "tok", "1")
			require.NoError(t, err)
			assert.Equal(t, tc.valid, valid)
		})
	}
}

func TestParseJob(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/jobs/parse", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "We are hiring.", body["jobDescription"])
		w.Write([]byte(`{"skills":["go"]}`))
	}))

	raw, err := c.ParseJob(context.Background(), "tok", "We are hiring.", "https://jobs.example.com/1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"skills":["go"]}`, string(raw))
}

// unsigned JWT with the given JSON payload, enough for ParseUnverified.
func makeToken(t *testing.T, payload string) string {
	t.Helper()
	enc := base64.RawURLEncoding
	header := enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	return header + "." + enc.EncodeToString([]byte(payload)) + "."
}

func TestDecodeIdentity(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Identity
		wantErr bool
	}{
		{"string userId", `{"userId":"42","email":"ada@example.com"}`, Identity{UserID: "42", Email: "ada@example.com"}, false},
		{"numeric userId", `{"userId":7}`, Identity{UserID: "7"}, false},
		{"sub fallback", `{"sub":"user-9"}`, Identity{UserID: "user-9"}, false},
		{"no id claim", `{"email":"x@example.com"}`, Identity{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeIdentity(makeToken(t, tc.payload))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeIdentityGarbage(t *testing.T) {
	_, err := DecodeIdentity("not-a-jwt")
	assert.Error(t, err)
}
