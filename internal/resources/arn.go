package resources

import (
	"fmt"
	"github.com/aws/aws-sdk-go/aws/arn"
	"strings"
)

// UnsupportedPrefix marks selection groups built from ARNs this tool cannot map.
const UnsupportedPrefix = "unsupported:"

// FromARN maps an ARN to the resource type and id the deletion handlers expect.
func FromARN(value string) (Identifier, error) {
	parsed, err := arn.Parse(value)
	if err != nil {
		return Identifier{}, err
	}

	resource := parsed.Resource
	kind, rest := splitResource(resource)

	switch parsed.Service {
	case "ec2":
		switch kind {
		case "instance":
			return Identifier{Type: TypeEc2, Id: ResourceId(rest), Name: value}, nil
		case "volume":
			return Identifier{Type: TypeEbs, Id: ResourceId(rest), Name: value}, nil
		}
	case "s3":
		if resource != "" && !strings.Contains(resource, "/") {
			return Identifier{Type: TypeS3, Id: ResourceId(resource), Name: value}, nil
		}
	case "sqs":
		if resource != "" {
			return Identifier{Type: TypeSqs, Id: ResourceId(resource), Name: value}, nil
		}
	case "lambda":
		if kind == "function" && rest != "" {
			name := strings.SplitN(rest, ":", 2)[0]
			return Identifier{Type: TypeLambda, Id: ResourceId(name), Name: value}, nil
		}
	case "logs":
		if kind == "log-group" && rest != "" {
			name := strings.TrimSuffix(rest, ":*")
			return Identifier{Type: TypeCloudWatchLogs, Id: ResourceId(name), Name: value}, nil
		}
	case "apigateway":
		if strings.HasPrefix(resource, "/restapis/") {
			id := strings.SplitN(strings.TrimPrefix(resource, "/restapis/"), "/", 2)[0]
			if id != "" {
				return Identifier{Type: TypeApiGateway, Id: ResourceId(id), Name: value}, nil
			}
		}
	case "rds":
		if kind == "db" && rest != "" {
			return Identifier{Type: TypeRds, Id: ResourceId(rest), Name: value}, nil
		}
	case "secretsmanager":
		if kind == "secret" {
			return Identifier{Type: TypeSecretsManager, Id: ResourceId(value), Name: value}, nil
		}
	case "dynamodb":
		if kind == "table" && rest != "" && !strings.Contains(rest, "/") {
			return Identifier{Type: TypeDynamoDb, Id: ResourceId(rest), Name: value}, nil
		}
	}

	return Identifier{}, fmt.Errorf("unsupported resource for deletion: %s (%s)", parsed.Service, value)
}

// splitResource splits "type/id" and "type:id" resource strings.
func splitResource(resource string) (kind, rest string) {
	i := strings.IndexAny(resource, "/:")
	if i < 0 {
		return resource, ""
	}
	return resource[:i], resource[i+1:]
}

// SelectionFromARNs groups ARNs by resource type in first-seen order. ARNs that
// cannot be mapped land in an "unsupported:<service>" group, which has no
// handler and therefore fails per id without stopping the run.
func SelectionFromARNs(arns []string) SelectionSet {
	selection := NewSelectionSet()
	for _, value := range arns {
		identifier, err := FromARN(value)
		if err != nil {
			service := "unknown"
			if parsed, parseErr := arn.Parse(value); parseErr == nil {
				service = parsed.Service
			}
			selection.Add(ResourceType(UnsupportedPrefix+service), ResourceId(value))
			continue
		}
		selection.Add(identifier.Type, identifier.Id)
	}
	return selection
}
