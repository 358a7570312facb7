package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

type DynamoDbTable struct{}

func (d *DynamoDbTable) Type() resources.ResourceType {
	return resources.TypeDynamoDb
}

// PreDelete turns deletion protection off. The api rejects the update when
// protection is already off, so failures are only logged.
func (d *DynamoDbTable) PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	tableName := string(id)
	_, err := clients.DynamoDB.UpdateTableWithContext(ctx, &dynamodb.UpdateTableInput{
		TableName:                 aws.String(tableName),
		DeletionProtectionEnabled: aws.Bool(false),
	})
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msgf("deletion protection of table %s was not updated", tableName)
	}
	return nil
}

func (d *DynamoDbTable) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	tableName := string(id)
	_, err := clients.DynamoDB.DeleteTableWithContext(ctx, &dynamodb.DeleteTableInput{
		TableName: &tableName,
	})
	if err != nil {
		return errors.Wrapf(err, "deleting table %s", tableName)
	}
	log.Ctx(ctx).Debug().Msgf("DB %s was deleted successfully", tableName)
	return nil
}
