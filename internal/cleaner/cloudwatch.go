package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

type CloudWatchLogGroup struct {
	NoPreDelete
}

func (c *CloudWatchLogGroup) Type() resources.ResourceType {
	return resources.TypeCloudWatchLogs
}

func (c *CloudWatchLogGroup) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	logGroupName := string(id)
	_, err := clients.CloudWatchLogs.DeleteLogGroupWithContext(ctx, &cloudwatchlogs.DeleteLogGroupInput{
		LogGroupName: aws.String(logGroupName),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting log group %s", logGroupName)
	}
	log.Ctx(ctx).Debug().Msgf("cloudwatch log group %s was deleted successfully", logGroupName)
	return nil
}
