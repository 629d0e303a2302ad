package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/gateway/internal/core/domain"
)

const defaultBucket = "uploads"

// GridFSStore implements ports.BlobStore on MongoDB GridFS. The blob key is
// used as the GridFS filename; when a key is written twice the newest
// revision is served.
type GridFSStore struct {
	db     *mongo.Database
	bucket string
}

// NewGridFSStore returns a store writing to the named bucket, "uploads" when
// name is empty.
func NewGridFSStore(db *mongo.Database, name string) *GridFSStore {
	if name == "" {
		name = defaultBucket
	}
	return &GridFSStore{db: db, bucket: name}
}

// open builds a bucket per call so deadlines from ctx never leak between
// concurrent requests.
func (s *GridFSStore) open(ctx context.Context) (*gridfs.Bucket, error) {
	b, err := gridfs.NewBucket(s.db, options.GridFSBucket().SetName(s.bucket))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := b.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		if err := b.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *GridFSStore) Put(ctx context.Context, key, contentType string, _ int64, r io.Reader) error {
	b, err := s.open(ctx)
	if err != nil {
		return domain.Storage("gridfs bucket", err)
	}
	opts := options.GridFSUpload().SetMetadata(bson.D{{Key: "content_type", Value: contentType}})
	if _, err := b.UploadFromStream(key, r, opts); err != nil {
		return domain.Storage("gridfs upload", err)
	}
	return nil
}

func (s *GridFSStore) Get(ctx context.Context, key string) (*domain.Blob, error) {
	b, err := s.open(ctx)
	if err != nil {
		return nil, domain.Storage("gridfs bucket", err)
	}
	stream, err := b.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, domain.Storage("gridfs download", err)
	}

	file := stream.GetFile()
	blob := &domain.Blob{Key: key, Size: file.Length, Body: stream}
	if raw, err := file.Metadata.LookupErr("content_type"); err == nil {
		if ct, ok := raw.StringValueOK(); ok {
			blob.ContentType = ct
		}
	}
	return blob, nil
}

func (s *GridFSStore) Ping(ctx context.Context) error {
	if err := s.db.Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("gridfs ping: %w", err)
	}
	return nil
}
