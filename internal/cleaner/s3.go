package cleaner

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	strings2 "wipeit/internal/lib/strings"
	"wipeit/internal/resources"
)

// MaxDeleteObjectsBatch is the DeleteObjects api limit.
const MaxDeleteObjectsBatch = 1000

// S3Bucket empties a bucket, including every object version and delete marker
// when versioning was ever enabled, and then deletes it.
type S3Bucket struct {
	BatchSize int
}

func (s *S3Bucket) Type() resources.ResourceType {
	return resources.TypeS3
}

func (s *S3Bucket) batchSize() int {
	if s.BatchSize <= 0 || s.BatchSize > MaxDeleteObjectsBatch {
		return MaxDeleteObjectsBatch
	}
	return s.BatchSize
}

// BucketRegion maps a GetBucketLocation constraint to a region name.
func BucketRegion(locationConstraint string) string {
	switch locationConstraint {
	case "":
		return "us-east-1"
	case "EU":
		return "eu-west-1"
	default:
		return locationConstraint
	}
}

func (s *S3Bucket) bucketClient(ctx context.Context, clients *connectors.SAwsSession, bucket string) (s3iface.S3API, error) {
	output, err := clients.S3.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "getting location of bucket %s", bucket)
	}
	return clients.S3ForRegion(BucketRegion(aws.StringValue(output.LocationConstraint))), nil
}

func (s *S3Bucket) deleteObjects(ctx context.Context, svc s3iface.S3API, bucket string, objects []*s3.ObjectIdentifier) (deleted int, err error) {
	limit := s.batchSize()
	for i := 0; i < len(objects); i += limit {
		batch := objects[i:strings2.Min(i+limit, len(objects))]
		output, err := svc.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return deleted, errors.Wrapf(err, "deleting %d objects from bucket %s", len(batch), bucket)
		}
		if len(output.Errors) > 0 {
			first := output.Errors[0]
			return deleted, fmt.Errorf(
				"failed deleting %d objects from bucket %s, first: %s (%s: %s)",
				len(output.Errors), bucket, aws.StringValue(first.Key), aws.StringValue(first.Code), aws.StringValue(first.Message),
			)
		}
		deleted += len(batch)
		log.Ctx(ctx).Debug().Msgf("deleted %d objects from bucket %s", len(batch), bucket)
	}
	return deleted, nil
}

func (s *S3Bucket) deleteVersions(ctx context.Context, svc s3iface.S3API, bucket string) (total int, err error) {
	var pageErr error
	err = svc.ListObjectVersionsPagesWithContext(ctx, &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucket),
	}, func(page *s3.ListObjectVersionsOutput, lastPage bool) bool {
		var objects []*s3.ObjectIdentifier
		for _, version := range page.Versions {
			objects = append(objects, &s3.ObjectIdentifier{Key: version.Key, VersionId: version.VersionId})
		}
		for _, marker := range page.DeleteMarkers {
			objects = append(objects, &s3.ObjectIdentifier{Key: marker.Key, VersionId: marker.VersionId})
		}
		deleted, err := s.deleteObjects(ctx, svc, bucket, objects)
		total += deleted
		if err != nil {
			pageErr = err
			return false
		}
		return true
	})
	if pageErr != nil {
		return total, pageErr
	}
	if err != nil {
		return total, errors.Wrapf(err, "listing object versions of bucket %s", bucket)
	}
	return total, nil
}

func (s *S3Bucket) deleteCurrentObjects(ctx context.Context, svc s3iface.S3API, bucket string) (total int, err error) {
	var pageErr error
	err = svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		var objects []*s3.ObjectIdentifier
		for _, object := range page.Contents {
			objects = append(objects, &s3.ObjectIdentifier{Key: object.Key})
		}
		deleted, err := s.deleteObjects(ctx, svc, bucket, objects)
		total += deleted
		if err != nil {
			pageErr = err
			return false
		}
		return true
	})
	if pageErr != nil {
		return total, pageErr
	}
	if err != nil {
		return total, errors.Wrapf(err, "listing objects of bucket %s", bucket)
	}
	return total, nil
}

func (s *S3Bucket) abortMultipartUploads(ctx context.Context, svc s3iface.S3API, bucket string) {
	err := svc.ListMultipartUploadsPagesWithContext(ctx, &s3.ListMultipartUploadsInput{
		Bucket: aws.String(bucket),
	}, func(page *s3.ListMultipartUploadsOutput, lastPage bool) bool {
		for _, upload := range page.Uploads {
			_, err := svc.AbortMultipartUploadWithContext(ctx, &s3.AbortMultipartUploadInput{
				Bucket:   aws.String(bucket),
				Key:      upload.Key,
				UploadId: upload.UploadId,
			})
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Msgf("failed to abort multipart upload %s", aws.StringValue(upload.UploadId))
			}
		}
		return true
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("failed to list multipart uploads of bucket %s", bucket)
	}
}

func (s *S3Bucket) PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	bucket := string(id)
	svc, err := s.bucketClient(ctx, clients, bucket)
	if err != nil {
		return err
	}

	versioning, err := svc.GetBucketVersioningWithContext(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return errors.Wrapf(err, "getting versioning of bucket %s", bucket)
	}

	var deleted int
	// suspended buckets still hold the versions written while versioning was enabled
	if aws.StringValue(versioning.Status) != "" {
		deleted, err = s.deleteVersions(ctx, svc, bucket)
	} else {
		deleted, err = s.deleteCurrentObjects(ctx, svc, bucket)
	}
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Msgf("emptied bucket %s (%d objects)", bucket, deleted)

	s.abortMultipartUploads(ctx, svc, bucket)
	return nil
}

func (s *S3Bucket) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	bucket := string(id)
	svc, err := s.bucketClient(ctx, clients, bucket)
	if err != nil {
		return err
	}
	_, err = svc.DeleteBucketWithContext(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting bucket %s", bucket)
	}
	log.Ctx(ctx).Debug().Msgf("bucket %s was deleted successfully", bucket)
	return nil
}
