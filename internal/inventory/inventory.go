package inventory

import (
	"context"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"sync"
	"wipeit/internal/connectors"
	"wipeit/internal/resources"
)

// Item describes one discovered resource. Id is the value a deletion
// selection expects for the resource type.
type Item struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Arn          string `json:"arn,omitempty"`
	Url          string `json:"url,omitempty"`
	Runtime      string `json:"runtime,omitempty"`
	State        string `json:"state,omitempty"`
	InstanceType string `json:"instance_type,omitempty"`
	Engine       string `json:"engine,omitempty"`
	Size         string `json:"size,omitempty"`
	AttachedTo   string `json:"attached_to,omitempty"`
	Created      string `json:"created,omitempty"`
}

type Result struct {
	Account   string                            `json:"account,omitempty"`
	Region    string                            `json:"region"`
	Resources map[resources.ResourceType][]Item `json:"resources"`
	Errors    map[resources.ResourceType]string `json:"errors,omitempty"`
}

func (r Result) Count() (total int) {
	for _, items := range r.Resources {
		total += len(items)
	}
	return
}

type discoverFunc func(ctx context.Context, clients *connectors.SAwsSession) ([]Item, error)

var discoverers = map[resources.ResourceType]discoverFunc{
	resources.TypeLambda:         discoverLambda,
	resources.TypeApiGateway:     discoverApiGateway,
	resources.TypeSqs:            discoverSqs,
	resources.TypeEc2:            discoverEc2,
	resources.TypeCloudWatchLogs: discoverCloudWatchLogs,
	resources.TypeEbs:            discoverEbs,
	resources.TypeS3:             discoverS3,
	resources.TypeRds:            discoverRds,
	resources.TypeSecretsManager: discoverSecrets,
	resources.TypeDynamoDb:       discoverDynamoDb,
}

// Inventory runs read-only discovery queries. Queries are independent and run
// concurrently.
type Inventory struct {
	Clients     *connectors.SAwsSession
	Concurrency int
}

func New(clients *connectors.SAwsSession) *Inventory {
	return &Inventory{Clients: clients, Concurrency: 4}
}

// Discover lists resources of the requested types, or of every known type when
// none are given. A failing type is logged and reported with no items.
func (i *Inventory) Discover(ctx context.Context, types ...resources.ResourceType) Result {
	if len(types) == 0 {
		types = resources.KnownTypes()
	}

	result := Result{
		Region:    i.Clients.Region,
		Resources: map[resources.ResourceType][]Item{},
		Errors:    map[resources.ResourceType]string{},
	}
	var lock sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if i.Concurrency > 0 {
		g.SetLimit(i.Concurrency)
	}
	for _, resourceType := range types {
		resourceType := resourceType
		discover, ok := discoverers[resourceType]
		if !ok {
			lock.Lock()
			result.Errors[resourceType] = "unsupported resource type"
			lock.Unlock()
			continue
		}
		g.Go(func() error {
			items, err := discover(gctx, i.Clients)
			lock.Lock()
			defer lock.Unlock()
			if err != nil {
				log.Error().Err(err).Msgf("error discovering %s resources", resourceType)
				result.Errors[resourceType] = err.Error()
				items = []Item{}
			} else {
				log.Info().Msgf("found %d %s resources", len(items), resourceType)
			}
			if items == nil {
				items = []Item{}
			}
			result.Resources[resourceType] = items
			return nil
		})
	}
	_ = g.Wait()

	if i.Clients.STS != nil {
		account, err := i.Clients.GetAccountId(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("could not resolve account id")
		}
		result.Account = account
	}
	return result
}
