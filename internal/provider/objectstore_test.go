package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageClient_Put(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewStorageClient(srv.URL, "service-key", "public")
	err := client.Put(context.Background(), "odds.json", []byte(`{"matches_count":0}`), "application/json")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/storage/v1/object/public/odds.json", got.URL.Path)
	assert.Equal(t, "Bearer service-key", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "true", got.Header.Get("x-upsert"))
	assert.JSONEq(t, `{"matches_count":0}`, string(body))
}

func TestStorageClient_PutTrimsSlashes(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	}))
	defer srv.Close()

	client := NewStorageClient(srv.URL+"/", "key", "public")
	require.NoError(t, client.Put(context.Background(), "/nested/odds.json", []byte("{}"), "application/json"))
	assert.Equal(t, "/storage/v1/object/public/nested/odds.json", path)
}

func TestStorageClient_PutErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewStorageClient(srv.URL, "key", "missing")
	err := client.Put(context.Background(), "odds.json", []byte("{}"), "application/json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestStorageClient_PutUnreachable(t *testing.T) {
	client := NewStorageClient("http://127.0.0.1:1", "key", "public")
	err := client.Put(context.Background(), "odds.json", []byte("{}"), "application/json")
	assert.Error(t, err)
}
