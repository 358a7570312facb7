package inventory

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/rs/zerolog/log"
	"strings"
	"time"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
)

const notAvailable = "N/A"

func formatTime(t *time.Time) string {
	if t == nil {
		return notAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

func ec2NameTag(tags []*ec2.Tag) string {
	for _, tag := range tags {
		if aws.StringValue(tag.Key) == "Name" {
			return aws.StringValue(tag.Value)
		}
	}
	return notAvailable
}

func discoverLambda(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.Lambda.ListFunctionsPagesWithContext(ctx, &lambda.ListFunctionsInput{}, func(page *lambda.ListFunctionsOutput, lastPage bool) bool {
		for _, function := range page.Functions {
			runtime := aws.StringValue(function.Runtime)
			if runtime == "" {
				runtime = notAvailable
			}
			items = append(items, Item{
				Id:      aws.StringValue(function.FunctionName),
				Name:    aws.StringValue(function.FunctionName),
				Arn:     aws.StringValue(function.FunctionArn),
				Runtime: runtime,
			})
		}
		return true
	})
	return
}

func discoverApiGateway(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.ApiGateway.GetRestApisPagesWithContext(ctx, &apigateway.GetRestApisInput{}, func(page *apigateway.GetRestApisOutput, lastPage bool) bool {
		for _, restApi := range page.Items {
			items = append(items, Item{
				Id:      aws.StringValue(restApi.Id),
				Name:    aws.StringValue(restApi.Name),
				Created: formatTime(restApi.CreatedDate),
			})
		}
		return true
	})
	return
}

func discoverSqs(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.SQS.ListQueuesPagesWithContext(ctx, &sqs.ListQueuesInput{MaxResults: aws.Int64(1000)}, func(page *sqs.ListQueuesOutput, lastPage bool) bool {
		for _, queueUrl := range aws.StringValueSlice(page.QueueUrls) {
			parts := strings.Split(queueUrl, "/")
			items = append(items, Item{
				Id:   queueUrl,
				Name: parts[len(parts)-1],
				Url:  queueUrl,
			})
		}
		return true
	})
	return
}

func discoverEc2(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.EC2.DescribeInstancesPagesWithContext(ctx, &ec2.DescribeInstancesInput{}, func(page *ec2.DescribeInstancesOutput, lastPage bool) bool {
		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				state := ""
				if instance.State != nil {
					state = aws.StringValue(instance.State.Name)
				}
				if state == ec2.InstanceStateNameTerminated {
					continue
				}
				instanceId := aws.StringValue(instance.InstanceId)
				items = append(items, Item{
					Id:           instanceId,
					Name:         fmt.Sprintf("%s (%s)", ec2NameTag(instance.Tags), instanceId),
					State:        state,
					InstanceType: aws.StringValue(instance.InstanceType),
				})
			}
		}
		return true
	})
	return
}

func discoverCloudWatchLogs(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.CloudWatchLogs.DescribeLogGroupsPagesWithContext(ctx, &cloudwatchlogs.DescribeLogGroupsInput{}, func(page *cloudwatchlogs.DescribeLogGroupsOutput, lastPage bool) bool {
		for _, logGroup := range page.LogGroups {
			items = append(items, Item{
				Id:   aws.StringValue(logGroup.LogGroupName),
				Name: aws.StringValue(logGroup.LogGroupName),
				Arn:  aws.StringValue(logGroup.Arn),
			})
		}
		return true
	})
	return
}

func discoverEbs(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.EC2.DescribeVolumesPagesWithContext(ctx, &ec2.DescribeVolumesInput{}, func(page *ec2.DescribeVolumesOutput, lastPage bool) bool {
		for _, volume := range page.Volumes {
			volumeId := aws.StringValue(volume.VolumeId)
			attachedTo := "Unattached"
			if len(volume.Attachments) > 0 {
				attachedTo = aws.StringValue(volume.Attachments[0].InstanceId)
			}
			items = append(items, Item{
				Id:         volumeId,
				Name:       fmt.Sprintf("%s (%s)", ec2NameTag(volume.Tags), volumeId),
				Size:       fmt.Sprintf("%d GB", aws.Int64Value(volume.Size)),
				State:      aws.StringValue(volume.State),
				AttachedTo: attachedTo,
			})
		}
		return true
	})
	return
}

// discoverS3 lists only the buckets located in the session region.
func discoverS3(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	output, err := clients.S3.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return
	}
	for _, bucket := range output.Buckets {
		name := aws.StringValue(bucket.Name)
		location, err := clients.S3.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{
			Bucket: bucket.Name,
		})
		if err != nil {
			log.Warn().Err(err).Msgf("could not determine region for bucket %s", name)
			continue
		}
		if cleaner.BucketRegion(aws.StringValue(location.LocationConstraint)) != clients.Region {
			continue
		}
		items = append(items, Item{
			Id:      name,
			Name:    name,
			Created: formatTime(bucket.CreationDate),
		})
	}
	return items, nil
}

func discoverRds(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.RDS.DescribeDBInstancesPagesWithContext(ctx, &rds.DescribeDBInstancesInput{}, func(page *rds.DescribeDBInstancesOutput, lastPage bool) bool {
		for _, instance := range page.DBInstances {
			items = append(items, Item{
				Id:     aws.StringValue(instance.DBInstanceIdentifier),
				Name:   aws.StringValue(instance.DBInstanceIdentifier),
				Arn:    aws.StringValue(instance.DBInstanceArn),
				Engine: aws.StringValue(instance.Engine),
				State:  aws.StringValue(instance.DBInstanceStatus),
			})
		}
		return true
	})
	return
}

func discoverSecrets(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.SecretsManager.ListSecretsPagesWithContext(ctx, &secretsmanager.ListSecretsInput{}, func(page *secretsmanager.ListSecretsOutput, lastPage bool) bool {
		for _, secret := range page.SecretList {
			items = append(items, Item{
				Id:      aws.StringValue(secret.ARN),
				Name:    aws.StringValue(secret.Name),
				Arn:     aws.StringValue(secret.ARN),
				Created: formatTime(secret.CreatedDate),
			})
		}
		return true
	})
	return
}

func discoverDynamoDb(ctx context.Context, clients *connectors.SAwsSession) (items []Item, err error) {
	err = clients.DynamoDB.ListTablesPagesWithContext(ctx, &dynamodb.ListTablesInput{}, func(page *dynamodb.ListTablesOutput, lastPage bool) bool {
		for _, tableName := range aws.StringValueSlice(page.TableNames) {
			items = append(items, Item{
				Id:   tableName,
				Name: tableName,
			})
		}
		return true
	})
	return
}
