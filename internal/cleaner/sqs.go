package cleaner

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"strings"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// Sqs deletes queues by url. Plain queue names are resolved to a url first.
type Sqs struct {
	NoPreDelete
}

func (s *Sqs) Type() resources.ResourceType {
	return resources.TypeSqs
}

func isQueueUrl(id string) bool {
	return strings.HasPrefix(id, "https://") || strings.HasPrefix(id, "http://")
}

func (s *Sqs) queueUrl(ctx context.Context, clients *connectors.SAwsSession, id string) (string, error) {
	if isQueueUrl(id) {
		return id, nil
	}
	output, err := clients.SQS.GetQueueUrlWithContext(ctx, &sqs.GetQueueUrlInput{
		QueueName: aws.String(id),
	})
	if err != nil {
		return "", errors.Wrapf(err, "resolving queue url of %s", id)
	}
	return aws.StringValue(output.QueueUrl), nil
}

func (s *Sqs) Delete(ctx context.Context, clients *connectors.SAwsSession, id resources.ResourceId) error {
	queueUrl, err := s.queueUrl(ctx, clients, string(id))
	if err != nil {
		return err
	}
	_, err = clients.SQS.DeleteQueueWithContext(ctx, &sqs.DeleteQueueInput{
		QueueUrl: aws.String(queueUrl),
	})
	if err != nil {
		return errors.Wrapf(err, "deleting queue %s", queueUrl)
	}
	log.Ctx(ctx).Debug().Msgf("sqs queue %s was deleted successfully", queueUrl)
	return nil
}
