package connectors

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ec2/ec2iface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/rds/rdsiface"
	"github.com/aws/aws-sdk-go/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go/service/resourcegroupstaggingapi/resourcegroupstaggingapiiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"sync"
)

// SAwsSession holds the service clients bound to one profile and region.
// Clients are safe for concurrent use and are shared by every run.
type SAwsSession struct {
	Profile string
	Region  string

	Session               *session.Session
	EC2                   ec2iface.EC2API
	S3                    s3iface.S3API
	SQS                   sqsiface.SQSAPI
	Lambda                lambdaiface.LambdaAPI
	ApiGateway            apigatewayiface.APIGatewayAPI
	CloudWatchLogs        cloudwatchlogsiface.CloudWatchLogsAPI
	RDS                   rdsiface.RDSAPI
	SecretsManager        secretsmanageriface.SecretsManagerAPI
	DynamoDB              dynamodbiface.DynamoDBAPI
	ResourceGroupsTagging resourcegroupstaggingapiiface.ResourceGroupsTaggingAPIAPI
	STS                   stsiface.STSAPI
}

type sessionKey struct {
	profile string
	region  string
}

var sessions = struct {
	sync.RWMutex
	cache map[sessionKey]*SAwsSession
}{cache: map[sessionKey]*SAwsSession{}}

// GetAWSSession returns the cached clients for profile/region, creating them
// on first use. An empty profile uses the default credential chain.
func GetAWSSession(profile, region string) (*SAwsSession, error) {
	key := sessionKey{profile: profile, region: region}

	sessions.RLock()
	awsSession, ok := sessions.cache[key]
	sessions.RUnlock()
	if ok {
		return awsSession, nil
	}

	sessions.Lock()
	defer sessions.Unlock()
	if awsSession, ok = sessions.cache[key]; ok {
		return awsSession, nil
	}

	awsSession, err := NewAWSSession(profile, region)
	if err != nil {
		return nil, err
	}
	sessions.cache[key] = awsSession
	return awsSession, nil
}

func NewAWSSession(profile, region string) (*SAwsSession, error) {
	if region == "" {
		return nil, errors.New("region is required")
	}
	sess, err := newSession(profile, region)
	if err != nil {
		return nil, errors.Wrapf(err, "creating aws session for profile %q in %s", profile, region)
	}
	log.Debug().Msgf("aws session for profile %q in %s was created", profile, region)

	return &SAwsSession{
		Profile:               profile,
		Region:                region,
		Session:               sess,
		EC2:                   ec2.New(sess),
		S3:                    s3.New(sess),
		SQS:                   sqs.New(sess),
		Lambda:                lambda.New(sess),
		ApiGateway:            apigateway.New(sess),
		CloudWatchLogs:        cloudwatchlogs.New(sess),
		RDS:                   rds.New(sess),
		SecretsManager:        secretsmanager.New(sess),
		DynamoDB:              dynamodb.New(sess),
		ResourceGroupsTagging: resourcegroupstaggingapi.New(sess),
		STS:                   sts.New(sess),
	}, nil
}

// S3ForRegion returns an S3 client for a bucket living outside the session region.
func (s *SAwsSession) S3ForRegion(region string) s3iface.S3API {
	if s.Session == nil || region == "" || region == s.Region {
		return s.S3
	}
	return s3.New(s.Session, aws.NewConfig().WithRegion(region))
}

func newSession(profile, region string) (*session.Session, error) {
	config := aws.NewConfig()
	config = config.WithRegion(region)
	config = config.WithCredentialsChainVerboseErrors(true)

	opts := session.Options{
		Config:                  *config,
		Profile:                 profile,
		SharedConfigState:       session.SharedConfigEnable,
		AssumeRoleTokenProvider: stscreds.StdinTokenProvider,
	}

	return session.NewSessionWithOptions(opts)
}

func (s *SAwsSession) GetAccountId(ctx aws.Context) (string, error) {
	result, err := s.STS.GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", err
	}
	return aws.StringValue(result.Account), nil
}
