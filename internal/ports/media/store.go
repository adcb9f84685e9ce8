package media

import (
	"context"
	"io"
	"strings"
)

// BlobStore persiste imágenes y devuelve URLs estables.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL invierte Put: devuelve la key de una URL emitida por este store.
	KeyFromURL(url string) (string, bool)
}

// PublicURL arma y desarma las URLs públicas de un store: Base + "/" + key.
type PublicURL struct {
	Base string
}

func (p PublicURL) URL(key string) string {
	return strings.TrimRight(p.Base, "/") + "/" + strings.TrimLeft(key, "/")
}

func (p PublicURL) Key(url string) (string, bool) {
	prefix := strings.TrimRight(p.Base, "/") + "/"
	if prefix == "/" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
