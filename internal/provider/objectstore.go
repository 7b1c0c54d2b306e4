package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/falconstore/oddswatch/internal/domain"
)

// ObjectStore uploads opaque blobs to a bucket, overwriting on conflict.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
}

// StorageClient talks to a Supabase-compatible storage HTTP API using a
// service key. Uploads always overwrite.
type StorageClient struct {
	baseURL    string
	serviceKey string
	bucket     string
	client     *http.Client
}

func NewStorageClient(baseURL, serviceKey, bucket string) *StorageClient {
	return &StorageClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *StorageClient) Put(ctx context.Context, path string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(path, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return domain.ErrInternal("build storage request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.ErrUpstream("object storage", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return domain.ErrUpstream("object storage",
			fmt.Errorf("upload %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}
