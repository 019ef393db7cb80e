// File: internal/bridge/server_test.go
package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/autoapply/autoapply-cli/api/schemas"
	"github.com/autoapply/autoapply-cli/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type echoHandler struct {
	got schemas.ActionRequest
}

func (e *echoHandler) Handle(ctx context.Context, req schemas.ActionRequest) schemas.ActionResponse {
	e.got = req
	return schemas.ActionResponse{Success: true, InvocationID: "inv-1"}
}

func newTestServer(t *testing.T) (*httptest.Server, *echoHandler) {
	t.Helper()
	cfg := config.BridgeConfig{
		Addr:            "127.0.0.1:0",
		RequestTimeout:  5 * time.Second,
		ShutdownTimeout: time.Second,
	}
	h := &echoHandler{}
	srv := httptest.NewServer(NewServer(cfg, h, nil).ServeMux())
	t.Cleanup(func() {
		http.DefaultClient.CloseIdleConnections()
		srv.Close()
	})
	return srv, h
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestActionDispatch(t *testing.T) {
	srv, h := newTestServer(t)

	body := `{"pageUrl":"https://jobs.example.com/apply","token":"tok"}`
	resp, err := http.Post(srv.URL+"/v1/actions/fillForm", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, schemas.ActionFillForm, h.got.Action)
	assert.Equal(t, "https://jobs.example.com/apply", h.got.PageURL)

	var out schemas.ActionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, "inv-1", out.InvocationID)
}

func TestPathActionOverridesBody(t *testing.T) {
	srv, h := newTestServer(t)

	body := `{"action":"fillForm","pageUrl":"x"}`
	resp, err := http.Post(srv.URL+"/v1/actions/analyzePage", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, schemas.ActionAnalyzePage, h.got.Action)
}

func TestUnknownAction(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/actions/selfDestruct", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var out schemas.ActionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "unknown action")
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/actions/fillForm", "application/json", strings.NewReader(`{"pageUrl":`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGracefulShutdown(t *testing.T) {
	cfg := config.BridgeConfig{
		Addr:            "127.0.0.1:0",
		RequestTimeout:  time.Second,
		ShutdownTimeout: time.Second,
	}
	s := NewServer(cfg, &echoHandler{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
