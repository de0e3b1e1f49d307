package filerepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 allows at most 1000 keys per DeleteObjects request.
const maxDeleteBatch = 1000

var _ Backend = (*S3Backend)(nil)

// S3Backend stores objects in an S3 bucket below an optional key prefix.
type S3Backend struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

type S3BackendConfig struct {
	Client    *s3.Client
	Bucket    string
	KeyPrefix string
}

func NewS3Backend(cfg S3BackendConfig) (*S3Backend, error) {
	if cfg.Client == nil {
		return nil, errors.New("s3 backend: client is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("s3 backend: bucket is required")
	}

	return &S3Backend{client: cfg.Client, bucket: cfg.Bucket, keyPrefix: cfg.KeyPrefix}, nil
}

func (b *S3Backend) key(path string) string {
	return b.keyPrefix + path
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

func (b *S3Backend) Exists(ctx context.Context, path string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

func (b *S3Backend) Read(ctx context.Context, path string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrObjectNotFound)
		}
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (b *S3Backend) Put(ctx context.Context, path string, data []byte) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(path)),
		Body:   bytes.NewReader(data),
	})

	return err
}

func (b *S3Backend) Move(ctx context.Context, src string, dst string) error {
	_, err := b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucket),
		Key:        aws.String(b.key(dst)),
		CopySource: aws.String(url.PathEscape(b.bucket) + "/" + url.PathEscape(b.key(src))),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", src, ErrObjectNotFound)
		}
		return fmt.Errorf("copy %s: %w", src, err)
	}

	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(src)),
	})

	return err
}

func (b *S3Backend) Delete(ctx context.Context, paths []string) error {
	var errs []error

	for i := 0; i < len(paths); i += maxDeleteBatch {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(i+maxDeleteBatch, len(paths))
		objects := make([]types.ObjectIdentifier, 0, end-i)
		for _, path := range paths[i:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(b.key(path))})
		}

		result, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, deleteErr := range result.Errors {
			errs = append(errs, fmt.Errorf("delete %s: %s", aws.ToString(deleteErr.Key), aws.ToString(deleteErr.Message)))
		}
	}

	return errors.Join(errs...)
}
