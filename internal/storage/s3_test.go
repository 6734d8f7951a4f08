package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testConfig(endpoint string) Config {
	return Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        endpoint,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}
}

func TestNewS3Store(t *testing.T) {
	store, err := NewS3Store(context.Background(), testConfig("http://localhost:4566"), nil)
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	if store.bucket != "test-bucket" {
		t.Errorf("bucket = %v, want test-bucket", store.bucket)
	}
	if store.region != "us-east-1" {
		t.Errorf("region = %v, want us-east-1", store.region)
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	cfg := testConfig("")
	cfg.Bucket = ""

	_, err := NewS3Store(context.Background(), cfg, nil)
	if err != ErrBucketRequired {
		t.Errorf("expected ErrBucketRequired, got %v", err)
	}
}

func TestS3Store_UploadBytes_MockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/processed/test-key.mp4") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		if string(body) != "fake video bytes" {
			t.Errorf("unexpected body: %s", string(body))
		}
		if ct := r.Header.Get("Content-Type"); ct != "video/mp4" {
			t.Errorf("content type = %v, want video/mp4", ct)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewS3Store(context.Background(), testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	url, err := store.UploadBytes(context.Background(), []byte("fake video bytes"), "processed/test-key.mp4", "")
	if err != nil {
		t.Fatalf("UploadBytes() error = %v", err)
	}

	expectedURL := server.URL + "/test-bucket/processed/test-key.mp4"
	if url != expectedURL {
		t.Errorf("url = %v, want %v", url, expectedURL)
	}
}

func TestS3Store_UploadFile_MockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("content type = %v, want image/jpeg", ct)
		}
		if cc := r.Header.Get("Cache-Control"); !strings.Contains(cc, "max-age=31536000") {
			t.Errorf("cache control = %v, want long max-age", cc)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	localPath := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := os.WriteFile(localPath, []byte("fake jpeg"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	store, err := NewS3Store(context.Background(), testConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	url, err := store.UploadFile(context.Background(), localPath, "thumbnails/thumb.jpg")
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if !strings.HasSuffix(url, "/test-bucket/thumbnails/thumb.jpg") {
		t.Errorf("unexpected url: %s", url)
	}
}

func TestS3Store_UploadFile_MissingLocalFile(t *testing.T) {
	store, err := NewS3Store(context.Background(), testConfig("http://localhost:4566"), nil)
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	_, err = store.UploadFile(context.Background(), "/nonexistent/file.mp4", "some/key.mp4")
	if err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestS3Store_PublicURL(t *testing.T) {
	t.Run("standard AWS URL without endpoint", func(t *testing.T) {
		store, err := NewS3Store(context.Background(), Config{
			Bucket:          "test-bucket",
			Region:          "eu-west-1",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
		}, nil)
		if err != nil {
			t.Fatalf("NewS3Store() error = %v", err)
		}

		got := store.PublicURL("user1/processed/v.mp4")
		want := "https://test-bucket.s3.eu-west-1.amazonaws.com/user1/processed/v.mp4"
		if got != want {
			t.Errorf("PublicURL() = %v, want %v", got, want)
		}
	})

	t.Run("path-style URL with custom endpoint", func(t *testing.T) {
		store, err := NewS3Store(context.Background(), testConfig("http://localhost:9000"), nil)
		if err != nil {
			t.Fatalf("NewS3Store() error = %v", err)
		}

		got := store.PublicURL("user1/processed/v.mp4")
		want := "http://localhost:9000/test-bucket/user1/processed/v.mp4"
		if got != want {
			t.Errorf("PublicURL() = %v, want %v", got, want)
		}
	})
}

func TestS3Store_SignedURL_MockServer(t *testing.T) {
	// Presigning is pure client-side computation; no request should be made.
	store, err := NewS3Store(context.Background(), testConfig("http://localhost:4566"), nil)
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}

	url, err := store.SignedURL(context.Background(), "user1/processed/v.mp4", 15*time.Minute)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	if !strings.Contains(url, "X-Amz-Signature") {
		t.Errorf("expected a presigned URL, got %s", url)
	}
	if !strings.Contains(url, "user1/processed/v.mp4") {
		t.Errorf("expected key in URL, got %s", url)
	}
}
