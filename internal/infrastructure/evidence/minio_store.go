// Package evidence guarda las fotos de entrega en un object storage compatible
// con S3 (MinIO). El motor de traslados nunca inspecciona el binario: solo
// conserva la referencia devuelta aquí.
package evidence

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store puerto del almacén de evidencias.
type Store interface {
	// Store sube el binario y devuelve la referencia opaca (bucket/objeto).
	Store(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error)
	// PresignedURL devuelve una URL temporal de lectura para una referencia.
	PresignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error)
}

// MinioStore implementación de Store sobre MinIO.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore construye el cliente y asegura que el bucket exista.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente minio: %w", err)
	}
	found, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("verificar bucket: %w", err)
	}
	if !found {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("crear bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// Store sube el binario con un nombre único y devuelve "bucket/objeto".
func (s *MinioStore) Store(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error) {
	objectName := uuid.New().String() + "-" + filename
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("subir evidencia: %w", err)
	}
	return s.bucket + "/" + objectName, nil
}

// PresignedURL devuelve una URL temporal de lectura. ref tiene forma "bucket/objeto".
func (s *MinioStore) PresignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	objectName := ref
	if len(ref) > len(s.bucket)+1 && ref[:len(s.bucket)+1] == s.bucket+"/" {
		objectName = ref[len(s.bucket)+1:]
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("firmar URL de evidencia: %w", err)
	}
	return u.String(), nil
}
