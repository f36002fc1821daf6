package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient stores chat attachments and hands back public URLs.
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	publicURL := cfg.MinIOPublicURL
	if publicURL == "" {
		publicURL = "http://" + cfg.MinIOEndpoint
	}
	return &MinIOClient{client: client, bucket: bucket, publicURL: publicURL}, nil
}

// UploadChatFile stores an attachment under <userID>/<unixmillis>.<ext>
// and returns its public URL.
func (m *MinIOClient) UploadChatFile(ctx context.Context, userID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error) {
	ext := path.Ext(filename)
	key := fmt.Sprintf("%s/%d%s", userID, time.Now().UnixMilli(), ext)

	_, err := m.client.PutObject(ctx, m.bucket, key, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, key), nil
}
