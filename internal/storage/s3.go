package storage

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveSink uploads finished chapter artifacts to S3 instead of a chat.
// It implements converter.AudioSink.
type ArchiveSink struct {
	client *minio.Client
	bucket string
	prefix string
	host   string
}

func NewArchiveSink(prefix string) (*ArchiveSink, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("S3_REGION")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &ArchiveSink{
		client: client,
		bucket: bucket,
		prefix: prefix,
		host:   fmt.Sprintf("https://%s", endpoint),
	}, nil
}

// Send uploads one artifact and logs its public URL.
func (s *ArchiveSink) Send(ctx context.Context, filePath string) error {
	key := filepath.ToSlash(filepath.Join(s.prefix, filepath.Base(filePath)))

	_, err := s.client.FPutObject(ctx, s.bucket, key, filePath, minio.PutObjectOptions{
		ContentType:  "audio/mpeg",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	log.Printf("[s3] archived %s -> %s", filePath, s.publicURL(key))
	return nil
}

func (s *ArchiveSink) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, url.PathEscape(key))
}
