package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"folio/internal/bus"
	"folio/internal/types"
)

func TestSaveSuccess(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/portfolio", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{
			"id": "Ada_20260829120000", "message": "Portfolio saved successfully",
		})
	}))
	defer srv.Close()

	b := bus.New()
	var toasts []bus.Toast
	b.SubscribeToast(func(tt bus.Toast) { toasts = append(toasts, tt) })

	c := NewClient(srv.URL, b, zaptest.NewLogger(t))
	p := types.Portfolio{Name: "Ada", Title: "Analyst", Generating: true}

	id, err := c.Save(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Ada_20260829120000", id)
	assert.Equal(t, "Ada", got["name"])
	// The transient generation flag never crosses the wire.
	assert.NotContains(t, got, "generating")
	assert.NotContains(t, got, "loading")

	require.Len(t, toasts, 1)
	assert.Equal(t, "Portfolio saved successfully!", toasts[0].Message)
	assert.Equal(t, bus.ToastSuccess, toasts[0].Type)
}

func TestSaveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := bus.New()
	var toasts []bus.Toast
	b.SubscribeToast(func(tt bus.Toast) { toasts = append(toasts, tt) })

	c := NewClient(srv.URL, b, zaptest.NewLogger(t))
	id, err := c.Save(context.Background(), types.Portfolio{Name: "Ada"})
	require.Error(t, err)
	assert.Empty(t, id)

	require.Len(t, toasts, 1)
	assert.Equal(t, "Failed to save portfolio on the server. Saved locally.", toasts[0].Message)
	assert.Equal(t, bus.ToastError, toasts[0].Type)
}

func TestSaveUnreachable(t *testing.T) {
	b := bus.New()
	var toasts []bus.Toast
	b.SubscribeToast(func(tt bus.Toast) { toasts = append(toasts, tt) })

	c := NewClient("http://127.0.0.1:1", b, zaptest.NewLogger(t))
	_, err := c.Save(context.Background(), types.Portfolio{Name: "Ada"})
	require.Error(t, err)

	require.Len(t, toasts, 1)
	assert.Equal(t, "Failed to save portfolio on the server. Saved locally.", toasts[0].Message)
}

func TestSaveNilBus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "x"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	id, err := c.Save(context.Background(), types.Portfolio{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "x", id)
}
