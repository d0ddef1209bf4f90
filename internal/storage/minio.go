package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinIOStorage uploads report files to a MinIO/S3 bucket.
type MinIOStorage struct {
	Client     *minio.Client
	BucketName string
}

// NewMinIOStorage initializes a MinIOStorage instance, creating the bucket
// when it does not exist yet.
func NewMinIOStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOStorage, error) {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		log.Info().Str("bucket", bucketName).Msg("created report bucket")
	}

	return &MinIOStorage{
		Client:     minioClient,
		BucketName: bucketName,
	}, nil
}

// UploadFile uploads an object to the configured bucket.
func (m *MinIOStorage) UploadFile(objectName string, data io.Reader) error {
	_, err := m.Client.PutObject(context.Background(), m.BucketName, objectName, data, -1, minio.PutObjectOptions{
		ContentType: "application/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %q to MinIO: %w", objectName, err)
	}
	log.Info().Str("object", objectName).Str("bucket", m.BucketName).Msg("uploaded report")
	return nil
}
