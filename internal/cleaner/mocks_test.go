package cleaner

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"sync"
)

type mockEC2 struct {
	ec2iface.EC2API
	mu sync.Mutex

	volume        *ec2.Volume
	describeErr   error
	detachErr     error
	waitErr       error
	modifyErr     error
	previousState string
	states        map[string]string

	detached   []string
	waiters    []request.Waiter
	modified   []string
	terminated []string
	deleted    []string
}

func (m *mockEC2) DescribeVolumesWithContext(aws.Context, *ec2.DescribeVolumesInput, ...request.Option) (*ec2.DescribeVolumesOutput, error) {
	if m.describeErr != nil {
		return nil, m.describeErr
	}
	if m.volume == nil {
		return &ec2.DescribeVolumesOutput{}, nil
	}
	return &ec2.DescribeVolumesOutput{Volumes: []*ec2.Volume{m.volume}}, nil
}

func (m *mockEC2) DetachVolumeWithContext(_ aws.Context, input *ec2.DetachVolumeInput, _ ...request.Option) (*ec2.VolumeAttachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detachErr != nil {
		return nil, m.detachErr
	}
	m.detached = append(m.detached, aws.StringValue(input.InstanceId))
	return &ec2.VolumeAttachment{State: aws.String(ec2.VolumeAttachmentStateDetaching)}, nil
}

func (m *mockEC2) WaitUntilVolumeAvailableWithContext(_ aws.Context, _ *ec2.DescribeVolumesInput, opts ...request.WaiterOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := request.Waiter{}
	w.ApplyOptions(opts...)
	m.waiters = append(m.waiters, w)
	return m.waitErr
}

func (m *mockEC2) DeleteVolumeWithContext(_ aws.Context, input *ec2.DeleteVolumeInput, _ ...request.Option) (*ec2.DeleteVolumeOutput, error) {
	m.deleted = append(m.deleted, aws.StringValue(input.VolumeId))
	return &ec2.DeleteVolumeOutput{}, nil
}

func (m *mockEC2) ModifyInstanceAttributeWithContext(_ aws.Context, input *ec2.ModifyInstanceAttributeInput, _ ...request.Option) (*ec2.ModifyInstanceAttributeOutput, error) {
	if m.modifyErr != nil {
		return nil, m.modifyErr
	}
	m.modified = append(m.modified, aws.StringValue(input.InstanceId))
	return &ec2.ModifyInstanceAttributeOutput{}, nil
}

func (m *mockEC2) TerminateInstancesWithContext(_ aws.Context, input *ec2.TerminateInstancesInput, _ ...request.Option) (*ec2.TerminateInstancesOutput, error) {
	instanceId := aws.StringValue(input.InstanceIds[0])
	m.terminated = append(m.terminated, instanceId)
	if m.states == nil {
		m.states = map[string]string{}
	}
	previousState, ok := m.states[instanceId]
	if !ok {
		previousState = m.previousState
	}
	if previousState == "" {
		previousState = ec2.InstanceStateNameRunning
	}
	m.states[instanceId] = ec2.InstanceStateNameShuttingDown
	return &ec2.TerminateInstancesOutput{
		TerminatingInstances: []*ec2.InstanceStateChange{{
			InstanceId:    aws.String(instanceId),
			PreviousState: &ec2.InstanceState{Name: aws.String(previousState)},
			CurrentState:  &ec2.InstanceState{Name: aws.String(ec2.InstanceStateNameShuttingDown)},
		}},
	}, nil
}

// mockS3 serves a bucket split into pages and records every call in order.
type mockS3 struct {
	s3iface.S3API

	location          string
	versioning        string
	versionPages      []*s3.ListObjectVersionsOutput
	objectPages       []*s3.ListObjectsV2Output
	uploads           []*s3.MultipartUpload
	deleteObjectsErrs []*s3.Error

	calls         []string
	deleteBatches [][]*s3.ObjectIdentifier
	aborted       []string
}

func (m *mockS3) GetBucketLocationWithContext(aws.Context, *s3.GetBucketLocationInput, ...request.Option) (*s3.GetBucketLocationOutput, error) {
	m.calls = append(m.calls, "GetBucketLocation")
	return &s3.GetBucketLocationOutput{LocationConstraint: aws.String(m.location)}, nil
}

func (m *mockS3) GetBucketVersioningWithContext(aws.Context, *s3.GetBucketVersioningInput, ...request.Option) (*s3.GetBucketVersioningOutput, error) {
	m.calls = append(m.calls, "GetBucketVersioning")
	output := &s3.GetBucketVersioningOutput{}
	if m.versioning != "" {
		output.Status = aws.String(m.versioning)
	}
	return output, nil
}

func (m *mockS3) ListObjectVersionsPagesWithContext(_ aws.Context, _ *s3.ListObjectVersionsInput, fn func(*s3.ListObjectVersionsOutput, bool) bool, _ ...request.Option) error {
	m.calls = append(m.calls, "ListObjectVersions")
	for i, page := range m.versionPages {
		if !fn(page, i == len(m.versionPages)-1) {
			break
		}
	}
	return nil
}

func (m *mockS3) ListObjectsV2PagesWithContext(_ aws.Context, _ *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	m.calls = append(m.calls, "ListObjectsV2")
	for i, page := range m.objectPages {
		if !fn(page, i == len(m.objectPages)-1) {
			break
		}
	}
	return nil
}

func (m *mockS3) DeleteObjectsWithContext(_ aws.Context, input *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	m.calls = append(m.calls, "DeleteObjects")
	m.deleteBatches = append(m.deleteBatches, input.Delete.Objects)
	return &s3.DeleteObjectsOutput{Errors: m.deleteObjectsErrs}, nil
}

func (m *mockS3) ListMultipartUploadsPagesWithContext(_ aws.Context, _ *s3.ListMultipartUploadsInput, fn func(*s3.ListMultipartUploadsOutput, bool) bool, _ ...request.Option) error {
	m.calls = append(m.calls, "ListMultipartUploads")
	fn(&s3.ListMultipartUploadsOutput{Uploads: m.uploads}, true)
	return nil
}

func (m *mockS3) AbortMultipartUploadWithContext(_ aws.Context, input *s3.AbortMultipartUploadInput, _ ...request.Option) (*s3.AbortMultipartUploadOutput, error) {
	m.aborted = append(m.aborted, aws.StringValue(input.UploadId))
	return &s3.AbortMultipartUploadOutput{}, nil
}

func (m *mockS3) DeleteBucketWithContext(aws.Context, *s3.DeleteBucketInput, ...request.Option) (*s3.DeleteBucketOutput, error) {
	m.calls = append(m.calls, "DeleteBucket")
	return &s3.DeleteBucketOutput{}, nil
}

func (m *mockS3) deletedKeys() (keys []string) {
	for _, batch := range m.deleteBatches {
		for _, object := range batch {
			keys = append(keys, aws.StringValue(object.Key)+"@"+aws.StringValue(object.VersionId))
		}
	}
	return
}

type mockSQS struct {
	sqsiface.SQSAPI

	resolved []string
	deleted  []string
}

func (m *mockSQS) GetQueueUrlWithContext(_ aws.Context, input *sqs.GetQueueUrlInput, _ ...request.Option) (*sqs.GetQueueUrlOutput, error) {
	name := aws.StringValue(input.QueueName)
	m.resolved = append(m.resolved, name)
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("https://sqs.us-east-1.amazonaws.com/123456789012/" + name)}, nil
}

func (m *mockSQS) DeleteQueueWithContext(_ aws.Context, input *sqs.DeleteQueueInput, _ ...request.Option) (*sqs.DeleteQueueOutput, error) {
	m.deleted = append(m.deleted, aws.StringValue(input.QueueUrl))
	return &sqs.DeleteQueueOutput{}, nil
}
