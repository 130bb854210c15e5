package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productsvc/internal/handlers"
	"productsvc/internal/middleware"
	"productsvc/internal/repositories"
	"productsvc/internal/server"
)

func newApp(metrics *middleware.Metrics) *fiber.App {
	return server.NewApp(server.Dependencies{
		Repo:    repositories.NewMemoryProductRepository(),
		Logger:  zerolog.Nop(),
		Metrics: metrics,
	})
}

func decodeError(t *testing.T, resp *http.Response) handlers.ErrorResponse {
	t.Helper()
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestNewApp_Health(t *testing.T) {
	app := newApp(nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, body["time"])
}

func TestNewApp_Metrics(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		app := newApp(middleware.NewMetrics())

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/products", nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `route="/products"`)
	})

	t.Run("disabled", func(t *testing.T) {
		app := newApp(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestNewApp_ErrorResponses(t *testing.T) {
	app := newApp(nil)
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	testCases := []struct {
		name   string
		method string
		target string
		status int
		label  string
	}{
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound, "Not Found"},
		{"wrong method", http.MethodPatch, "/products", http.StatusMethodNotAllowed, "Method not Allowed"},
		{"wrong method on item", http.MethodPost, "/products/1", http.StatusMethodNotAllowed, "Method not Allowed"},
		{"panic", http.MethodGet, "/boom", http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tc.method, tc.target, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, tc.label, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := newApp(nil)
	listening := make(chan struct{})
	app.Hooks().OnListen(func(fiber.ListenData) error {
		close(listening)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, app, "127.0.0.1:0", zerolog.Nop())
	}()

	select {
	case <-listening:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start listening")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(server.ShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
