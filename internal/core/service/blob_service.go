package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/gateway/internal/core/domain"
	"github.com/storefront/gateway/internal/core/ports"
)

const (
	uploadPrefix       = "uploads/"
	fileRoutePrefix    = "/api/file/"
	maxReserveAttempts = 16
	defaultContentType = "application/octet-stream"
)

// BlobService generates upload keys and proxies bytes to the Blob Service.
// Downloads are not authorized: anyone holding a key can fetch it.
type BlobService struct {
	store    ports.BlobStore
	reserver ports.KeyReserver
	maxBytes int64
	now      func() time.Time
	logger   zerolog.Logger
}

// NewBlobService builds the gateway. reserver may be nil, in which case two
// uploads of the same filename within one millisecond share a key and the
// later write wins.
func NewBlobService(store ports.BlobStore, reserver ports.KeyReserver, maxBytes int64, logger zerolog.Logger) *BlobService {
	return &BlobService{
		store:    store,
		reserver: reserver,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the time source. Used by tests.
func (s *BlobService) WithClock(now func() time.Time) *BlobService {
	s.now = now
	return s
}

// Upload stores r under uploads/{unix_millis}-{filename}.
func (s *BlobService) Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*domain.UploadResult, error) {
	name := cleanFilename(filename)
	if name == "" {
		return nil, domain.ErrNoFile
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	key, err := s.allocateKey(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, key, contentType, size, r); err != nil {
		return nil, err
	}

	s.logger.Info().Str("key", key).Int64("size", size).Str("content_type", contentType).Msg("file uploaded")
	return &domain.UploadResult{
		Key:      key,
		Filename: filename,
		Size:     size,
		Type:     contentType,
		URL:      fileURL(key),
	}, nil
}

// Download returns the blob stored at key or domain.ErrBlobNotFound.
func (s *BlobService) Download(ctx context.Context, key string) (*domain.Blob, error) {
	if strings.TrimSpace(key) == "" {
		return nil, domain.ErrBlobNotFound
	}
	blob, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if blob.ContentType == "" {
		blob.ContentType = defaultContentType
	}
	return blob, nil
}

func (s *BlobService) allocateKey(ctx context.Context, name string) (string, error) {
	millis := s.now().UnixMilli()
	if s.reserver == nil {
		return blobKey(millis, name), nil
	}

	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		key := blobKey(millis+int64(attempt), name)
		ok, err := s.reserver.Reserve(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			return key, nil
		}
		s.logger.Debug().Str("key", key).Msg("blob key taken, advancing")
	}
	return "", fmt.Errorf("allocate blob key for %q: %d attempts exhausted", name, maxReserveAttempts)
}

// fileURL is the escaped download path for key. Keys keep raw filename
// characters, so '%', ' ' and '#' must not reach the client unescaped.
func fileURL(key string) string {
	return (&url.URL{Path: fileRoutePrefix + key}).EscapedPath()
}

func blobKey(millis int64, name string) string {
	return fmt.Sprintf("%s%d-%s", uploadPrefix, millis, name)
}

// cleanFilename keeps only the base name so a client cannot choose a key
// outside the uploads prefix.
func cleanFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
