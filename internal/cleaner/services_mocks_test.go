package cleaner

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/apigateway/apigatewayiface"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs/cloudwatchlogsiface"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/lambda/lambdaiface"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/rds/rdsiface"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/secretsmanager/secretsmanageriface"
)

type mockLambda struct {
	lambdaiface.LambdaAPI
	deleteErr error
	input     *lambda.DeleteFunctionInput
}

func (m *mockLambda) DeleteFunctionWithContext(_ aws.Context, input *lambda.DeleteFunctionInput, _ ...request.Option) (*lambda.DeleteFunctionOutput, error) {
	m.input = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &lambda.DeleteFunctionOutput{}, nil
}

type mockApiGateway struct {
	apigatewayiface.APIGatewayAPI
	deleteErr error
	input     *apigateway.DeleteRestApiInput
}

func (m *mockApiGateway) DeleteRestApiWithContext(_ aws.Context, input *apigateway.DeleteRestApiInput, _ ...request.Option) (*apigateway.DeleteRestApiOutput, error) {
	m.input = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &apigateway.DeleteRestApiOutput{}, nil
}

type mockCloudWatchLogs struct {
	cloudwatchlogsiface.CloudWatchLogsAPI
	deleteErr error
	input     *cloudwatchlogs.DeleteLogGroupInput
}

func (m *mockCloudWatchLogs) DeleteLogGroupWithContext(_ aws.Context, input *cloudwatchlogs.DeleteLogGroupInput, _ ...request.Option) (*cloudwatchlogs.DeleteLogGroupOutput, error) {
	m.input = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &cloudwatchlogs.DeleteLogGroupOutput{}, nil
}

type mockRDS struct {
	rdsiface.RDSAPI
	modifyErr   error
	deleteErr   error
	modifyInput *rds.ModifyDBInstanceInput
	deleteInput *rds.DeleteDBInstanceInput
}

func (m *mockRDS) ModifyDBInstanceWithContext(_ aws.Context, input *rds.ModifyDBInstanceInput, _ ...request.Option) (*rds.ModifyDBInstanceOutput, error) {
	m.modifyInput = input
	if m.modifyErr != nil {
		return nil, m.modifyErr
	}
	return &rds.ModifyDBInstanceOutput{}, nil
}

func (m *mockRDS) DeleteDBInstanceWithContext(_ aws.Context, input *rds.DeleteDBInstanceInput, _ ...request.Option) (*rds.DeleteDBInstanceOutput, error) {
	m.deleteInput = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &rds.DeleteDBInstanceOutput{}, nil
}

type mockSecretsManager struct {
	secretsmanageriface.SecretsManagerAPI
	deleteErr error
	input     *secretsmanager.DeleteSecretInput
}

func (m *mockSecretsManager) DeleteSecretWithContext(_ aws.Context, input *secretsmanager.DeleteSecretInput, _ ...request.Option) (*secretsmanager.DeleteSecretOutput, error) {
	m.input = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &secretsmanager.DeleteSecretOutput{}, nil
}

type mockDynamoDB struct {
	dynamodbiface.DynamoDBAPI
	updateErr   error
	deleteErr   error
	updateInput *dynamodb.UpdateTableInput
	deleteInput *dynamodb.DeleteTableInput
}

func (m *mockDynamoDB) UpdateTableWithContext(_ aws.Context, input *dynamodb.UpdateTableInput, _ ...request.Option) (*dynamodb.UpdateTableOutput, error) {
	m.updateInput = input
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dynamodb.UpdateTableOutput{}, nil
}

func (m *mockDynamoDB) DeleteTableWithContext(_ aws.Context, input *dynamodb.DeleteTableInput, _ ...request.Option) (*dynamodb.DeleteTableOutput, error) {
	m.deleteInput = input
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &dynamodb.DeleteTableOutput{}, nil
}
