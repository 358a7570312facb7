package cleaner

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// Ec2Instance terminates instances. Termination protection is switched off
// first; if that fails the terminate call is still made and reports the cause.
type Ec2Instance struct{}

func (e *Ec2Instance) Type() resources.ResourceType {
	return resources.TypeEc2
}

func setDisableInstanceApiTermination(ctx context.Context, svc *connectors.SAwsSession, instanceId string, value bool) (*ec2.ModifyInstanceAttributeOutput, error) {
	input := &ec2.ModifyInstanceAttributeInput{
		DisableApiTermination: &ec2.AttributeBooleanValue{
			Value: aws.Bool(value),
		},
		InstanceId: aws.String(instanceId),
	}
	return svc.EC2.ModifyInstanceAttributeWithContext(ctx, input)
}

func (e *Ec2Instance) PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	instanceId := string(id)
	_, err := setDisableInstanceApiTermination(ctx, clients, instanceId, false)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("could not disable termination protection for %s", instanceId)
		return nil
	}
	log.Ctx(ctx).Debug().Msgf("termination protection of %s was disabled", instanceId)
	return nil
}

func (e *Ec2Instance) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	instanceId := string(id)
	output, err := clients.EC2.TerminateInstancesWithContext(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []*string{aws.String(instanceId)},
	})
	if err != nil {
		return errors.Wrapf(err, "terminating instance %s", instanceId)
	}

	// terminating an instance that is already shutting down or terminated is accepted by the api
	for _, change := range output.TerminatingInstances {
		if aws.StringValue(change.InstanceId) != instanceId || change.PreviousState == nil {
			continue
		}
		switch aws.StringValue(change.PreviousState.Name) {
		case ec2.InstanceStateNameTerminated:
			return fmt.Errorf("instance %s is already terminated", instanceId)
		case ec2.InstanceStateNameShuttingDown:
			return fmt.Errorf("instance %s is already terminating", instanceId)
		}
	}
	log.Ctx(ctx).Debug().Msgf("instance %s was terminated successfully", instanceId)
	return nil
}
