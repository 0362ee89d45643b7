package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melih/lighthouse-hook/internal/core/domain"
)

func TestNotify_PostsPayload(t *testing.T) {
	var (
		got         domain.CallbackPayload
		method      string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	c := NewCallback("Continuous deployment on Falcon", 5*time.Second)
	res, err := c.Notify(context.Background(), srv.URL+"/cb", domain.StateSuccess, "Deployed")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Contains(t, contentType, "application/json")
	assert.Equal(t, domain.CallbackPayload{
		State:       "success",
		Description: "Deployed",
		Context:     "Continuous deployment on Falcon",
	}, got)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, `{"id":1}`, res.Body)
}

func TestNotify_Non2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	res, err := NewCallback("ctx", time.Second).Notify(context.Background(), srv.URL, domain.StateFailure, "boom")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestNotify_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewCallback("ctx", time.Second).Notify(context.Background(), url, domain.StateSuccess, "Deployed")
	assert.ErrorIs(t, err, domain.ErrNotify)
}

func TestNotify_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCallback("ctx", time.Second).Notify(ctx, "http://127.0.0.1:1/cb", domain.StateSuccess, "Deployed")
	assert.ErrorIs(t, err, domain.ErrNotify)
	assert.ErrorIs(t, err, context.Canceled)
}
