package cleaner

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"strings"
	"time"
	"wipeit/internal/connectors"
	"wipeit/internal/lib/retry"
	"wipeit/internal/resources"
)

var ErrVolumeWaitTimeout = errors.New("timed out waiting for volume to become available")

// EbsVolume detaches a volume from every instance and waits for it to become
// available before deleting it.
type EbsVolume struct {
	WaitAttempts int
	WaitDelay    time.Duration
	Retry        retry.Policy
}

func (e *EbsVolume) Type() resources.ResourceType {
	return resources.TypeEbs
}

func (e *EbsVolume) describe(ctx context.Context, clients *connectors.SAwsSession, volumeId string) (volume *ec2.Volume, err error) {
	err = retry.Do(ctx, e.Retry, func() error {
		output, err := clients.EC2.DescribeVolumesWithContext(ctx, &ec2.DescribeVolumesInput{
			VolumeIds: []*string{aws.String(volumeId)},
		})
		if err != nil {
			return err
		}
		if len(output.Volumes) == 0 {
			return fmt.Errorf("volume %s was not found", volumeId)
		}
		volume = output.Volumes[0]
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "describing volume %s", volumeId)
	}
	return
}

func (e *EbsVolume) detach(ctx context.Context, clients *connectors.SAwsSession, volumeId string, attachment *ec2.VolumeAttachment) error {
	instanceId := aws.StringValue(attachment.InstanceId)
	state := aws.StringValue(attachment.State)
	if state == ec2.VolumeAttachmentStateDetaching || state == ec2.VolumeAttachmentStateDetached {
		log.Ctx(ctx).Debug().Msgf("volume %s is already %s from %s", volumeId, state, instanceId)
		return nil
	}

	_, err := clients.EC2.DetachVolumeWithContext(ctx, &ec2.DetachVolumeInput{
		VolumeId:   aws.String(volumeId),
		InstanceId: attachment.InstanceId,
		Device:     attachment.Device,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == "IncorrectState" {
			log.Ctx(ctx).Debug().Msgf("volume %s is no longer attached to %s", volumeId, instanceId)
			return nil
		}
		return errors.Wrapf(err, "detaching volume %s from %s", volumeId, instanceId)
	}
	log.Ctx(ctx).Info().Msgf("detached volume %s from %s", volumeId, instanceId)
	return nil
}

func (e *EbsVolume) waitAvailable(ctx context.Context, clients *connectors.SAwsSession, volumeId string) error {
	attempts, delay := e.WaitAttempts, e.WaitDelay
	if attempts <= 0 {
		attempts = DefaultOptions().EbsWaitAttempts
	}
	if delay <= 0 {
		delay = DefaultOptions().EbsWaitDelay
	}

	// the waiter keeps polling through describe errors, so it is not wrapped in retry.Do
	err := clients.EC2.WaitUntilVolumeAvailableWithContext(
		ctx,
		&ec2.DescribeVolumesInput{VolumeIds: []*string{aws.String(volumeId)}},
		request.WithWaiterMaxAttempts(attempts),
		request.WithWaiterDelay(request.ConstantWaiterDelay(delay)),
	)
	if err == nil {
		return nil
	}
	if aerr, ok := err.(awserr.Error); ok && aerr.Code() == request.WaiterResourceNotReadyErrorCode {
		// the same code is used when the volume reaches a failure state such as deleted
		if strings.Contains(aerr.Message(), "exceeded wait attempts") {
			return errors.Wrapf(ErrVolumeWaitTimeout, "volume %s after %d attempts", volumeId, attempts)
		}
		return errors.Wrapf(err, "volume %s entered a failure state", volumeId)
	}
	return errors.Wrapf(err, "waiting for volume %s", volumeId)
}

func (e *EbsVolume) PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	volumeId := string(id)
	volume, err := e.describe(ctx, clients, volumeId)
	if err != nil {
		return err
	}

	if len(volume.Attachments) == 0 && aws.StringValue(volume.State) == ec2.VolumeStateAvailable {
		return nil
	}

	for _, attachment := range volume.Attachments {
		if err := e.detach(ctx, clients, volumeId, attachment); err != nil {
			return err
		}
	}

	log.Ctx(ctx).Debug().Msgf("waiting for volume %s to become available", volumeId)
	return e.waitAvailable(ctx, clients, volumeId)
}

func (e *EbsVolume) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	volumeId := string(id)
	_, err := clients.EC2.DeleteVolumeWithContext(ctx, &ec2.DeleteVolumeInput{
		VolumeId: aws.String(volumeId),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting volume %s", volumeId)
	}
	log.Ctx(ctx).Debug().Msgf("volume %s was deleted successfully", volumeId)
	return nil
}
