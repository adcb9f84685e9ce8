package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"pet-adoption/internal/ports/media"
)

type object struct {
	data        []byte
	contentType string
}

// Store guarda los blobs en memoria (modo dev/tests). Sirve los objetos vía
// ServeHTTP para que las URLs que emite sean navegables.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	urls    media.PublicURL
}

// New recibe la base pública, p.ej. "http://localhost:8080/media".
func New(publicBase string) (*Store, error) {
	if !strings.HasPrefix(publicBase, "http://") && !strings.HasPrefix(publicBase, "https://") {
		return nil, fmt.Errorf("memory blob store: public base must be http(s), got %q", publicBase)
	}
	return &Store{
		objects: make(map[string]object),
		urls:    media.PublicURL{Base: publicBase},
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, size+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", fmt.Errorf("memory blob store: size mismatch for %s", key)
	}

	s.mu.Lock()
	s.objects[key] = object{data: data, contentType: contentType}
	s.mu.Unlock()

	return s.urls.URL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) KeyFromURL(url string) (string, bool) {
	return s.urls.Key(url)
}

// ServeHTTP espera la key como path relativo (montar con http.StripPrefix).
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/")

	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", obj.contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = io.Copy(w, bytes.NewReader(obj.data))
}
