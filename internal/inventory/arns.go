package inventory

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/service/resourcegroupstaggingapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"os"
	"path/filepath"
	"sort"
	"wipeit/internal/connectors"
)

// ArnsByService lists every tagged or previously tagged resource in the session
// region through the tagging api and groups the arns by service.
func ArnsByService(ctx context.Context, clients *connectors.SAwsSession) (map[string][]string, error) {
	if clients.ResourceGroupsTagging == nil {
		return nil, errors.New("resource groups tagging client is not configured")
	}

	byService := map[string][]string{}
	err := clients.ResourceGroupsTagging.GetResourcesPagesWithContext(ctx, &resourcegroupstaggingapi.GetResourcesInput{
		ResourcesPerPage: aws.Int64(100),
	}, func(page *resourcegroupstaggingapi.GetResourcesOutput, lastPage bool) bool {
		for _, mapping := range page.ResourceTagMappingList {
			resourceArn := aws.StringValue(mapping.ResourceARN)
			parsed, err := arn.Parse(resourceArn)
			if err != nil {
				log.Warn().Err(err).Msgf("skipping malformed arn %s", resourceArn)
				continue
			}
			byService[parsed.Service] = append(byService[parsed.Service], resourceArn)
		}
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing resources through the tagging api")
	}
	for _, arns := range byService {
		sort.Strings(arns)
	}
	return byService, nil
}

// WriteArnFiles writes one <service>.json array per service into dir and
// returns the written paths.
func WriteArnFiles(dir string, byService map[string][]string) (paths []string, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}

	services := make([]string, 0, len(byService))
	for service := range byService {
		services = append(services, service)
	}
	sort.Strings(services)

	for _, service := range services {
		data, err := json.MarshalIndent(byService[service], "", "  ")
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, service+".json")
		if err = os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return paths, errors.Wrapf(err, "writing %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
