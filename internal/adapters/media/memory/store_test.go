package memory

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStore_PutServeDelete(t *testing.T) {
	s, err := New("http://localhost:8080/media")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	url, err := s.Put(ctx, "pets/abc-dog.png", strings.NewReader("png-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://localhost:8080/media/pets/abc-dog.png" {
		t.Fatalf("unexpected url %q", url)
	}

	key, ok := s.KeyFromURL(url)
	if !ok || key != "pets/abc-dog.png" {
		t.Fatalf("unexpected key %q ok=%v", key, ok)
	}
	if _, ok := s.KeyFromURL("https://other.test/pets/abc-dog.png"); ok {
		t.Fatalf("foreign url must not resolve")
	}

	srv := httptest.NewServer(http.StripPrefix("/media", s))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/media/pets/abc-dog.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "png-bytes" || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected response %d %q %q", resp.StatusCode, body, resp.Header.Get("Content-Type"))
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp, err = http.Get(srv.URL + "/media/pets/abc-dog.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestStore_RejectsNonHTTPBase(t *testing.T) {
	if _, err := New("file:///tmp"); err == nil {
		t.Fatalf("expected error for non-http base")
	}
}

func TestStore_SizeMismatch(t *testing.T) {
	s, _ := New("https://cdn.test")
	if _, err := s.Put(context.Background(), "k", strings.NewReader("abc"), 10, "image/png"); err == nil {
		t.Fatalf("expected size mismatch error")
	}
}
