package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"pet-adoption/internal/domain/errs"
	"pet-adoption/internal/ports/auth"
)

type fakeStore struct {
	objects map[string][]byte
	types   map[string]string
	delErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

const fakeBase = "https://blobs.test/"

func (s *fakeStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = b
	s.types[key] = contentType
	return fakeBase + key, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, fakeBase) {
		return "", false
	}
	return strings.TrimPrefix(url, fakeBase), true
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func TestUpload_PNGKeepsBytesAndPrefix(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0, nil)

	url, err := svc.Upload(context.Background(), auth.Claims{UserID: "sh-1", Role: auth.RoleShelter},
		"../../Mi Perro.png", int64(len(pngBytes)), bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	key, ok := store.KeyFromURL(url)
	if !ok || !strings.HasPrefix(key, "pets/"+ownerSegment("sh-1")+"/") || !strings.HasSuffix(key, "-Mi_Perro.png") {
		t.Fatalf("unexpected key %q", key)
	}
	if !bytes.Equal(store.objects[key], pngBytes) {
		t.Fatalf("stored bytes differ")
	}
	if store.types[key] != "image/png" {
		t.Fatalf("expected image/png, got %q", store.types[key])
	}
}

func TestUpload_VolunteerPrefix(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0, nil)

	url, err := svc.Upload(context.Background(), auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer},
		"stray.png", int64(len(pngBytes)), bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(url, fakeBase+"found-pets/"+ownerSegment("vol-1")+"/") {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestUpload_Rejects(t *testing.T) {
	svc := NewService(newFakeStore(), 32, nil)
	ctx := context.Background()
	actor := auth.Claims{UserID: "vol-1", Role: auth.RoleVolunteer}

	if _, err := svc.Upload(ctx, auth.Claims{}, "a.png", 10, bytes.NewReader(pngBytes)); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Upload(ctx, actor, "a.png", int64(len(pngBytes)), bytes.NewReader(pngBytes)); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversize, got %v", err)
	}
	text := []byte("hello world")
	if _, err := svc.Upload(ctx, actor, "a.txt", int64(len(text)), bytes.NewReader(text)); !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for text, got %v", err)
	}
}

func TestRemoveImages_SkipsForeignAndIgnoresErrors(t *testing.T) {
	store := newFakeStore()
	own := "pets/" + ownerSegment("sh-1") + "/a.png"
	store.objects[own] = pngBytes
	svc := NewService(store, 0, nil)

	svc.RemoveImages(context.Background(), "sh-1", []string{
		"https://elsewhere.test/" + own,
		fakeBase + own,
	})
	if _, ok := store.objects[own]; ok {
		t.Fatalf("expected object removed")
	}

	store.delErr = errors.New("boom")
	svc.RemoveImages(context.Background(), "sh-1", []string{fakeBase + "pets/" + ownerSegment("sh-1") + "/b.png"})
}

func TestRemoveImages_KeepsOtherUsersImages(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0, nil)
	ctx := context.Background()

	url, err := svc.Upload(ctx, auth.Claims{UserID: "sh-1", Role: auth.RoleShelter},
		"dog.png", int64(len(pngBytes)), bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	key, _ := store.KeyFromURL(url)
	store.objects["pets/legacy.png"] = pngBytes

	svc.RemoveImages(ctx, "vol-1", []string{url})
	svc.RemoveImages(ctx, "sh", []string{url})
	svc.RemoveImages(ctx, "", []string{url})
	svc.RemoveImages(ctx, "sh-1", []string{fakeBase + "pets/legacy.png"})
	if _, ok := store.objects[key]; !ok {
		t.Fatalf("image of sh-1 removed by another user")
	}
	if _, ok := store.objects["pets/legacy.png"]; !ok {
		t.Fatalf("key without owner segment must be kept")
	}

	svc.RemoveImages(ctx, "sh-1", []string{url})
	if _, ok := store.objects[key]; ok {
		t.Fatalf("owner could not remove own image")
	}
}

func TestOwnerSegment_NoSlashOrCollision(t *testing.T) {
	a, b := ownerSegment("a/b"), ownerSegment("a_b")
	if strings.Contains(a, "/") || a == b {
		t.Fatalf("unexpected segments %q %q", a, b)
	}
}
