package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// ApiGateway deletes REST APIs by id.
type ApiGateway struct {
	NoPreDelete
}

func (a *ApiGateway) Type() resources.ResourceType {
	return resources.TypeApiGateway
}

func (a *ApiGateway) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	restApiId := string(id)
	_, err := clients.ApiGateway.DeleteRestApiWithContext(ctx, &apigateway.DeleteRestApiInput{
		RestApiId: aws.String(restApiId),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting rest api %s", restApiId)
	}
	log.Ctx(ctx).Debug().Msgf("rest api gateway %s was deleted successfully", restApiId)
	return nil
}
