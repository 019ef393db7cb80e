// File: cmd/cmd_test.go
package cmd

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/store"
)

func unsignedToken(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`)) + "." +
		enc.EncodeToString([]byte(payload)) + "."
}

func TestBuildRequestRequiresTarget(t *testing.T) {
	f := &pageFlags{}
	_, err := f.buildRequest(context.Background(), schemas.ActionFillForm, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page URL or --html-file")
}

func TestBuildRequestPositionalURL(t *testing.T) {
	f := &pageFlags{token: "tok"}
	req, err := f.buildRequest(context.Background(), schemas.ActionFillForm,
		[]string{"https://jobs.example.com/apply"})
	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com/apply", req.PageURL)
	assert.Equal(t, schemas.ActionFillForm, req.Action)
}

func TestBuildRequestDecodesTokenIdentity(t *testing.T) {
	f := &pageFlags{token: unsignedToken(`{"userId":"42"}`), htmlFile: "page.html"}
	req, err := f.buildRequest(context.Background(), schemas.ActionFillForm, nil)
	require.NoError(t, err)
	assert.Equal(t, "42", req.UserID)
}

func TestBuildRequestMockProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"fullName":"Ada Lovelace","email":"ada@example.com"}`), 0o600))

	f := &pageFlags{mockFile: path, htmlFile: "page.html"}
	req, err := f.buildRequest(context.Background(), schemas.ActionFillForm, nil)
	require.NoError(t, err)
	require.NotNil(t, req.MockProfile)
	assert.Equal(t, "Ada Lovelace", req.MockProfile.FullName)
}

func TestBuildRequestUsesStoredSession(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.SaveCredentials(ctx, "stored-token", "7", "ada@example.com"))
	require.NoError(t, s.Close())

	old := cfg.Store.Path
	cfg.Store.Path = dbPath
	t.Cleanup(func() { cfg.Store.Path = old })

	f := &pageFlags{htmlFile: "page.html"}
	req, err := f.buildRequest(ctx, schemas.ActionAutoApplySupervised, nil)
	require.NoError(t, err)
	assert.Equal(t, "stored-token", req.Token)
	assert.Equal(t, "7", req.UserID)
	assert.Equal(t, "ada@example.com", req.UserEmail)
}

func TestLoadMockProfileErrors(t *testing.T) {
	_, err := loadMockProfile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	_, err = loadMockProfile(bad)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"fill", "analyze", "apply", "serve", "login", "logout"} {
		assert.True(t, names[want], "command %s not registered", want)
	}

	apply, _, err := rootCmd.Find([]string{"auto-apply"})
	require.NoError(t, err)
	assert.Equal(t, "apply", apply.Name(), "auto-apply aliases apply")
}
