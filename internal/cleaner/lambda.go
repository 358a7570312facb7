package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

type Lambda struct {
	NoPreDelete
}

func (l *Lambda) Type() resources.ResourceType {
	return resources.TypeLambda
}

func (l *Lambda) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	functionName := string(id)
	_, err := clients.Lambda.DeleteFunctionWithContext(ctx, &lambda.DeleteFunctionInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting lambda %s", functionName)
	}
	log.Ctx(ctx).Debug().Msgf("lambda %s was deleted successfully", functionName)
	return nil
}
