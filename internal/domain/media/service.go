package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/auth"
	portmedia "pet-adoption/internal/ports/media"

	"github.com/google/uuid"
)

const DefaultMaxBytes int64 = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Service struct {
	store    portmedia.BlobStore
	maxBytes int64
	log      logger.Logger
}

func NewService(store portmedia.BlobStore, maxBytes int64, log logger.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, maxBytes: maxBytes, log: log}
}

func (s *Service) MaxBytes() int64 { return s.maxBytes }

// Upload guarda la imagen y devuelve su URL pública. El content type se
// detecta de los bytes, no del header que manda el cliente.
func (s *Service) Upload(ctx context.Context, actor auth.Claims, filename string, size int64, r io.Reader) (string, error) {
	if !actor.Authenticated() {
		return "", errs.ErrUnauthorized
	}
	if size <= 0 {
		return "", fmt.Errorf("empty file: %w", errs.ErrInvalidInput)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("file exceeds %d bytes: %w", s.maxBytes, errs.ErrInvalidInput)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !allowedTypes[contentType] {
		return "", fmt.Errorf("unsupported content type %q: %w", contentType, errs.ErrInvalidInput)
	}

	key := objectKey(actor, filename)
	url, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), r), size, contentType)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}

	s.log.Info("image uploaded", map[string]any{
		"key":          key,
		"size":         size,
		"content_type": contentType,
		"user_id":      actor.UserID,
	})
	return url, nil
}

// RemoveImages borra las imágenes que este store emitió para ownerID. Las de
// otros usuarios se saltean aunque el registro las referencie. Best-effort: solo loguea fallos.
func (s *Service) RemoveImages(ctx context.Context, ownerID string, urls []string) {
	for _, u := range urls {
		key, ok := s.store.KeyFromURL(u)
		if !ok {
			continue
		}
		if !ownedBy(key, ownerID) {
			s.log.Warn("skip foreign image", map[string]any{
				"key":     key,
				"user_id": ownerID,
			})
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.Warn("remove image failed", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

// objectKey arma <prefijo>/<owner>/<uuid>-<nombre>.
func objectKey(actor auth.Claims, filename string) string {
	prefix := "found-pets"
	if actor.Role == auth.RoleShelter {
		prefix = "pets"
	}
	return prefix + "/" + ownerSegment(actor.UserID) + "/" + uuid.NewString() + "-" + sanitize(filename)
}

// ownerSegment codifica el user id para que no pueda inyectar "/" ni colisionar con otro.
func ownerSegment(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func ownedBy(key, ownerID string) bool {
	if ownerID == "" {
		return false
	}
	parts := strings.SplitN(key, "/", 3)
	return len(parts) == 3 && parts[1] == ownerSegment(ownerID) && parts[2] != ""
}

func sanitize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	if len(name) > 100 {
		name = name[len(name)-100:]
	}
	return name
}
