package inventory

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"strings"
	"wipeit/internal/cli/common"
	"wipeit/internal/connectors"
	inventory2 "wipeit/internal/inventory"
	"wipeit/internal/logging"
	"wipeit/internal/report"
	"wipeit/internal/resources"
)

var Output string
var Types []string
var Arns bool
var OutputDir string

var Inventory = &cobra.Command{
	Use:     "inventory [flags]",
	Short:   "List resources that can be deleted",
	Aliases: []string{"list", "ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateProvider(); err != nil {
			return err
		}
		if err := common.ValidateOutput(Output); err != nil {
			return err
		}
		types, err := parseTypes(Types)
		if err != nil {
			return err
		}
		if Arns && OutputDir == "" {
			return errors.New("--output-dir is required with --arns")
		}

		clients, err := common.Session()
		if err != nil {
			return err
		}
		if Arns {
			return writeArns(cmd, clients)
		}
		if Output == "table" {
			logging.UserProgress("Discovering resources in %s...", clients.Region)
		}
		result := inventory2.New(clients).Discover(cmd.Context(), types...)

		if Output == "json" {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}
		renderTables(cmd.OutOrStdout(), result, types)
		return nil
	},
	SilenceUsage: true,
}

// writeArns dumps every arn known to the tagging api as one file per service,
// each usable as a delete --arns-file.
func writeArns(cmd *cobra.Command, clients *connectors.SAwsSession) error {
	logging.UserProgress("Listing resource arns in %s...", clients.Region)
	byService, err := inventory2.ArnsByService(cmd.Context(), clients)
	if err != nil {
		return err
	}
	paths, err := inventory2.WriteArnFiles(OutputDir, byService)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	logging.UserSuccess("Wrote %d arn files to %s", len(paths), OutputDir)
	return nil
}

func parseTypes(values []string) (types []resources.ResourceType, err error) {
	for _, value := range values {
		resourceType := resources.ResourceType(strings.TrimSpace(value))
		if !resourceType.Known() {
			return nil, fmt.Errorf("unknown resource type %q", value)
		}
		types = append(types, resourceType)
	}
	return types, nil
}

func itemRow(resourceType resources.ResourceType, item inventory2.Item) []string {
	switch resourceType {
	case resources.TypeLambda:
		return []string{item.Id, item.Runtime, item.Arn}
	case resources.TypeEc2:
		return []string{item.Name, item.State, item.InstanceType}
	case resources.TypeEbs:
		return []string{item.Name, item.Size, item.State, item.AttachedTo}
	case resources.TypeRds:
		return []string{item.Id, item.Engine, item.State}
	case resources.TypeApiGateway, resources.TypeS3, resources.TypeSecretsManager:
		return []string{item.Id, item.Name, item.Created}
	default:
		return []string{item.Id, item.Name}
	}
}

func itemFields(resourceType resources.ResourceType) []string {
	switch resourceType {
	case resources.TypeLambda:
		return []string{"Id", "Runtime", "Arn"}
	case resources.TypeEc2:
		return []string{"Name", "State", "Type"}
	case resources.TypeEbs:
		return []string{"Name", "Size", "State", "Attached To"}
	case resources.TypeRds:
		return []string{"Id", "Engine", "State"}
	case resources.TypeApiGateway, resources.TypeS3, resources.TypeSecretsManager:
		return []string{"Id", "Name", "Created"}
	default:
		return []string{"Id", "Name"}
	}
}

func renderTables(w io.Writer, result inventory2.Result, types []resources.ResourceType) {
	if len(types) == 0 {
		types = resources.KnownTypes()
	}
	for _, resourceType := range types {
		items := result.Resources[resourceType]
		if msg, ok := result.Errors[resourceType]; ok {
			logging.UserWarning("%s: %s", resourceType, msg)
		}
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", resourceType, len(items))
		data := make([][]string, 0, len(items))
		for _, item := range items {
			data = append(data, itemRow(resourceType, item))
		}
		report.RenderTable(w, itemFields(resourceType), data)
	}
	logging.UserSuccess("Found %d resources", result.Count())
}

func init() {
	Inventory.Flags().StringVarP(&Output, "output", "o", "table", "Output format: table or json")
	Inventory.Flags().StringSliceVarP(&Types, "types", "t", nil, "Resource types to list, all by default")
	Inventory.Flags().BoolVar(&Arns, "arns", false, "Write the arns of all tagged resources, grouped by service")
	Inventory.Flags().StringVar(&OutputDir, "output-dir", "", "Directory for the --arns files")
}
