package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// RdsInstance deletes db instances without a final snapshot.
type RdsInstance struct{}

func (r *RdsInstance) Type() resources.ResourceType {
	return resources.TypeRds
}

func (r *RdsInstance) PreDelete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	instanceId := string(id)
	_, err := clients.RDS.ModifyDBInstanceWithContext(ctx, &rds.ModifyDBInstanceInput{
		DBInstanceIdentifier: aws.String(instanceId),
		DeletionProtection:   aws.Bool(false),
		ApplyImmediately:     aws.Bool(true),
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msgf("could not disable deletion protection for db instance %s", instanceId)
	}
	return nil
}

func (r *RdsInstance) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	instanceId := string(id)
	_, err := clients.RDS.DeleteDBInstanceWithContext(ctx, &rds.DeleteDBInstanceInput{
		DBInstanceIdentifier:   aws.String(instanceId),
		SkipFinalSnapshot:      aws.Bool(true),
		DeleteAutomatedBackups: aws.Bool(true),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting db instance %s", instanceId)
	}
	log.Ctx(ctx).Debug().Msgf("db instance %s deletion started", instanceId)
	return nil
}
