package services

import (
	"context"
	"fmt"
	"io"

	"sipor/internal/repositories"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type StorageService interface {
	DownloadObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioStorage struct {
	client *minio.Client
}

func NewMinioStorageService(endpoint, accessKey, secretKey string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client}, nil
}

func (m *minioStorage) DownloadObject(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	if err := m.StatObject(ctx, bucketName, objectName); err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (m *minioStorage) StatObject(ctx context.Context, bucketName, objectName string) error {
	_, err := m.client.StatObject(ctx, bucketName, objectName, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return fmt.Errorf("%w: %s/%s", repositories.ErrSourceUnavailable, bucketName, objectName)
		}
		return err
	}
	return nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

type objectWorkbookSource struct {
	storage StorageService
	bucket  string
	object  string
}

// NewObjectWorkbookSource adapts object storage to the workbook source
// contract used by the loader.
func NewObjectWorkbookSource(storage StorageService, bucket, object string) repositories.WorkbookSource {
	return &objectWorkbookSource{storage: storage, bucket: bucket, object: object}
}

func (s *objectWorkbookSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.storage.DownloadObject(ctx, s.bucket, s.object)
}

func (s *objectWorkbookSource) Key() string {
	return fmt.Sprintf("%s/%s", s.bucket, s.object)
}
