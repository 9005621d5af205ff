package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type UploadResult struct {
	Path      string
	PublicURL string
}

// Uploader stores proof-of-payment files and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string, upsert bool) (UploadResult, error)
}

// SupabaseStorage uploads through the store's object-storage REST surface
// using the same service-role key as the data reads.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseStorage(baseURL, serviceKey string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func encodePath(objectPath string) string {
	segments := strings.Split(strings.TrimLeft(objectPath, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func (s *SupabaseStorage) Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string, upsert bool) (UploadResult, error) {
	if s.baseURL == "" || s.serviceKey == "" {
		return UploadResult{}, fmt.Errorf("object storage is not configured")
	}

	bucket = strings.Trim(bucket, "/")
	cleanPath := strings.TrimLeft(objectPath, "/")
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, encodePath(cleanPath))

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(body))
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	if upsert {
		req.Header.Set("x-upsert", "true")
	} else {
		req.Header.Set("x-upsert", "false")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload storage object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return UploadResult{}, fmt.Errorf("failed to upload storage object (%d): %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}

	return UploadResult{
		Path:      cleanPath,
		PublicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, cleanPath),
	}, nil
}
