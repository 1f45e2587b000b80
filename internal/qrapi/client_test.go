package qrapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MikhailRaia/qr-generator/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate_qr", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)

	return ts, &calls
}

func TestClient_GenerateSuccess(t *testing.T) {
	var received map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"file_url":"/files/abc.png"}`)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())

	got, err := client.Generate(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, ts.URL+"/files/abc.png", got)
	assert.Equal(t, map[string]string{"url": "https://example.com"}, received)
}

func TestClient_ImageURL(t *testing.T) {
	client := NewClient("https://qr-api.example", nil)

	assert.Equal(t, "https://qr-api.example/files/abc.png", client.ImageURL("/files/abc.png"))
	assert.Equal(t, "https://qr-api.example", client.BaseURL())
}

func TestClient_TrimsTrailingSlashFromBase(t *testing.T) {
	client := NewClient("https://qr-api.example/", nil)

	assert.Equal(t, "https://qr-api.example/files/abc.png", client.ImageURL("/files/abc.png"))
}

func TestClient_GenerateHTTPError(t *testing.T) {
	ts, calls := newTestService(t, http.StatusInternalServerError, `{"message":"server exploded"}`)
	client := NewClient(ts.URL, ts.Client())

	_, err := client.Generate(context.Background(), "https://example.com")

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindHTTPError, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, "server exploded", appErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_GenerateHTTPErrorUsesReasonPhrase(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)

		conn, buf, err := w.(http.Hijacker).Hijack()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		buf.WriteString("HTTP/1.1 503 Upstream Cold Start\r\nContent-Length: 0\r\nConnection: close\r\n\r\n")
		buf.Flush()
	}))
	defer ts.Close()

	client := NewClient(ts.URL, ts.Client())

	_, err := client.Generate(context.Background(), "https://example.com")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindHTTPError, appErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	assert.Equal(t, "Upstream Cold Start", appErr.Message)
}

func TestClient_GenerateMissingFileURL(t *testing.T) {
	bodies := []string{`{}`, `{"file_url":""}`, `{"other":"x"}`, `not json`, `null`}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			ts, _ := newTestService(t, http.StatusOK, body)
			client := NewClient(ts.URL, ts.Client())

			got, err := client.Generate(context.Background(), "https://example.com")

			assert.Empty(t, got)
			assert.True(t, apperrors.IsKind(err, apperrors.KindMalformedResponse))
		})
	}
}

func TestClient_GenerateNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	client := NewClient(baseURL, nil)

	_, err := client.Generate(context.Background(), "https://example.com")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNetworkFailure))
}

func TestClient_GenerateCanceledContext(t *testing.T) {
	ts, calls := newTestService(t, http.StatusOK, `{"file_url":"/files/abc.png"}`)
	client := NewClient(ts.URL, ts.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "https://example.com")

	assert.True(t, apperrors.IsKind(err, apperrors.KindNetworkFailure))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}
