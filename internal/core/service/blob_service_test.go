package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/core/domain"
)

type stubBlobStore struct {
	objects map[string]*storedObject
	putErr  error
}

type storedObject struct {
	contentType string
	data        []byte
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{objects: make(map[string]*storedObject)}
}

func (s *stubBlobStore) Put(_ context.Context, key, contentType string, _ int64, r io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = &storedObject{contentType: contentType, data: data}
	return nil
}

func (s *stubBlobStore) Get(_ context.Context, key string) (*domain.Blob, error) {
	obj, ok := s.objects[key]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return &domain.Blob{
		Key:         key,
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (s *stubBlobStore) Ping(context.Context) error { return nil }

type stubReserver struct {
	taken map[string]bool
}

func (r *stubReserver) Reserve(_ context.Context, key string) (bool, error) {
	if r.taken[key] {
		return false, nil
	}
	r.taken[key] = true
	return true, nil
}

var fixedUploadTime = time.UnixMilli(1700000000123)

func TestBlobService_UploadAndDownload(t *testing.T) {
	store := newStubBlobStore()
	svc := NewBlobService(store, nil, 0, zerolog.Nop()).WithClock(func() time.Time { return fixedUploadTime })
	ctx := context.Background()

	res, err := svc.Upload(ctx, "photo.png", "image/png", 5, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Key != "uploads/1700000000123-photo.png" {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if res.URL != "/api/file/uploads/1700000000123-photo.png" || res.Type != "image/png" || res.Size != 5 || res.Filename != "photo.png" {
		t.Fatalf("unexpected result %+v", res)
	}

	blob, err := svc.Download(ctx, res.Key)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer blob.Body.Close()
	body, _ := io.ReadAll(blob.Body)
	if string(body) != "hello" || blob.ContentType != "image/png" {
		t.Fatalf("unexpected blob %q %q", body, blob.ContentType)
	}
}

func TestBlobService_UploadURLIsEscaped(t *testing.T) {
	svc := NewBlobService(newStubBlobStore(), nil, 0, zerolog.Nop()).WithClock(func() time.Time { return fixedUploadTime })

	res, err := svc.Upload(context.Background(), "a%20b #1.txt", "text/plain", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Key != "uploads/1700000000123-a%20b #1.txt" {
		t.Fatalf("unexpected key %q", res.Key)
	}
	if res.URL != "/api/file/uploads/1700000000123-a%2520b%20%231.txt" {
		t.Fatalf("unexpected url %q", res.URL)
	}
}

func TestBlobService_SameMillisecondCollidesWithoutReserver(t *testing.T) {
	store := newStubBlobStore()
	svc := NewBlobService(store, nil, 0, zerolog.Nop()).WithClock(func() time.Time { return fixedUploadTime })
	ctx := context.Background()

	a, _ := svc.Upload(ctx, "f.txt", "text/plain", 1, strings.NewReader("a"))
	b, _ := svc.Upload(ctx, "f.txt", "text/plain", 1, strings.NewReader("b"))
	if a.Key != b.Key {
		t.Fatalf("expected documented collision, got %q and %q", a.Key, b.Key)
	}
	if string(store.objects[a.Key].data) != "b" {
		t.Fatalf("expected the later write to win")
	}
}

func TestBlobService_ReserverAdvancesOnCollision(t *testing.T) {
	store := newStubBlobStore()
	reserver := &stubReserver{taken: make(map[string]bool)}
	svc := NewBlobService(store, reserver, 0, zerolog.Nop()).WithClock(func() time.Time { return fixedUploadTime })
	ctx := context.Background()

	a, err := svc.Upload(ctx, "f.txt", "text/plain", 1, strings.NewReader("a"))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	b, err := svc.Upload(ctx, "f.txt", "text/plain", 1, strings.NewReader("b"))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if a.Key != "uploads/1700000000123-f.txt" || b.Key != "uploads/1700000000124-f.txt" {
		t.Fatalf("unexpected keys %q %q", a.Key, b.Key)
	}
}

func TestBlobService_UploadRejections(t *testing.T) {
	svc := NewBlobService(newStubBlobStore(), nil, 4, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "", "text/plain", 1, strings.NewReader("a")); !errors.Is(err, domain.ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if _, err := svc.Upload(ctx, "big.bin", "", 5, strings.NewReader("12345")); !errors.Is(err, domain.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	res, err := svc.Upload(ctx, "../../etc/passwd", "", 1, strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(res.Key, "uploads/") || strings.Contains(res.Key, "..") || res.Type != "application/octet-stream" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestBlobService_DownloadMissing(t *testing.T) {
	svc := NewBlobService(newStubBlobStore(), nil, 0, zerolog.Nop())
	if _, err := svc.Download(context.Background(), "uploads/none"); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	if _, err := svc.Download(context.Background(), ""); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound for empty key, got %v", err)
	}
}
