package resources

import "sort"

type ResourceType string

// ResourceId is passed through to the cloud API as is.
type ResourceId string

const (
	TypeLambda         ResourceType = "lambda"
	TypeApiGateway     ResourceType = "api_gateway"
	TypeSqs            ResourceType = "sqs"
	TypeEc2            ResourceType = "ec2"
	TypeCloudWatchLogs ResourceType = "cloudwatch_logs"
	TypeEbs            ResourceType = "ebs"
	TypeS3             ResourceType = "s3"
	TypeRds            ResourceType = "rds"
	TypeSecretsManager ResourceType = "secretsmanager"
	TypeDynamoDb       ResourceType = "dynamodb"
)

var knownTypes = []ResourceType{
	TypeLambda,
	TypeApiGateway,
	TypeSqs,
	TypeEc2,
	TypeCloudWatchLogs,
	TypeEbs,
	TypeS3,
	TypeRds,
	TypeSecretsManager,
	TypeDynamoDb,
}

// KnownTypes returns the resource types this tool knows how to inventory, in display order.
func KnownTypes() []ResourceType {
	types := make([]ResourceType, len(knownTypes))
	copy(types, knownTypes)
	return types
}

func (t ResourceType) String() string {
	return string(t)
}

func (t ResourceType) Known() bool {
	for _, known := range knownTypes {
		if t == known {
			return true
		}
	}
	return false
}

func SortTypes(types []ResourceType) {
	sort.Slice(types, func(i, j int) bool {
		return types[i] < types[j]
	})
}

func (id ResourceId) String() string {
	return string(id)
}

// Identifier names a single resource. Name is display metadata only.
type Identifier struct {
	Type ResourceType
	Id   ResourceId
	Name string
}

func (i Identifier) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return string(i.Id)
}

func (i Identifier) String() string {
	return string(i.Type) + "/" + string(i.Id)
}
