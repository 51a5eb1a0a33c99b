// Package archive stores finalized quote snapshots in object storage.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	crmservice "novyrix_backend/internal/crm/service"
	"novyrix_backend/platform/config"
	"novyrix_backend/platform/logger"
)

const objectPrefix = "quote-requests/"

// Service writes quote request snapshots to a MinIO bucket so the
// agency keeps a record even if the database row is later modified.
type Service struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

// New creates a new archive service backed by MinIO.
func New(cfg config.MinIOConfig, log *logger.Logger) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Service{
		client: client,
		bucket: cfg.GetMinIOBucketArchive(),
		log:    log,
	}, nil
}

// EnsureBucketExists creates the archive bucket if it doesn't exist.
func (s *Service) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// ArchiveQuoteRequest uploads the snapshot as a JSON object keyed by
// the quote request ID.
func (s *Service) ArchiveQuoteRequest(ctx context.Context, requestID uuid.UUID, snapshot any) error {
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	key := objectPrefix + requestID.String() + ".json"
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload snapshot %s: %w", key, err)
	}

	s.log.Info("quote snapshot archived", "bucket", s.bucket, "key", key)
	return nil
}

// Compile-time check that Service satisfies the CRM archiver port.
var _ crmservice.SnapshotArchiver = (*Service)(nil)
