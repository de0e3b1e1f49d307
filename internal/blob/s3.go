package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 allows at most 1000 keys per DeleteObjects request.
const maxDeleteBatch = 1000

var _ External = (*S3External)(nil)

// S3External deletes external blobs stored in S3 or an S3 compatible store.
type S3External struct {
	client *s3.Client
}

func NewS3External(client *s3.Client) *S3External {
	return &S3External{client: client}
}

func (e *S3External) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	var errs []error

	for i := 0; i < len(keys); i += maxDeleteBatch {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(i+maxDeleteBatch, len(keys))
		objects := make([]types.ObjectIdentifier, 0, end-i)
		for _, key := range keys[i:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		result, err := e.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete objects: %w", err))
			continue
		}

		for _, deleteErr := range result.Errors {
			errs = append(errs, fmt.Errorf("delete %s: %s", aws.ToString(deleteErr.Key), aws.ToString(deleteErr.Message)))
		}
	}

	return errors.Join(errs...)
}
