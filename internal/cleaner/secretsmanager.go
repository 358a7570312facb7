package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// Secret deletes secrets immediately, skipping the recovery window.
type Secret struct {
	NoPreDelete
}

func (s *Secret) Type() resources.ResourceType {
	return resources.TypeSecretsManager
}

func (s *Secret) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	secretId := string(id)
	_, err := clients.SecretsManager.DeleteSecretWithContext(ctx, &secretsmanager.DeleteSecretInput{
		SecretId:                   aws.String(secretId),
		ForceDeleteWithoutRecovery: aws.Bool(true),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting secret %s", secretId)
	}
	log.Ctx(ctx).Debug().Msgf("secret %s was deleted successfully", secretId)
	return nil
}
