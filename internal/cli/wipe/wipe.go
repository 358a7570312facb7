package wipe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"github.com/lithammer/dedent"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"wipeit/internal/cleaner"
	"wipeit/internal/cli/common"
	"wipeit/internal/destroyer"
	"wipeit/internal/env"
	"wipeit/internal/logging"
	"wipeit/internal/report"
	"wipeit/internal/resources"
)

var SelectionsFile string
var ArnsFile string
var AssumeYes bool
var DryRun bool
var Workers int
var Output string

var Wipe = &cobra.Command{
	Use:   "delete [flags]",
	Short: "Delete the selected resources",
	Long: dedent.Dedent(`
		Delete resources listed in a selections file:

		  {"selections": {"ec2": ["i-0123"], "s3": ["my-bucket"]}}

		or in a JSON array of ARNs (--arns-file). Every resource is attempted and
		reported, a failure never stops the remaining deletions. Resource types are
		processed in the order they appear in the file.
	`),
	Aliases: []string{"wipe", "destroy"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := common.ValidateProvider(); err != nil {
			return err
		}
		if err := common.ValidateOutput(Output); err != nil {
			return err
		}
		return run(cmd)
	},
	SilenceUsage: true,
}

func readSelection() (selection resources.SelectionSet, err error) {
	selection = resources.NewSelectionSet()
	if SelectionsFile == "" && ArnsFile == "" {
		return selection, errors.New("one of --file or --arns-file is required")
	}

	if SelectionsFile != "" {
		req, err := parseSelectionsFile(SelectionsFile)
		if err != nil {
			return selection, err
		}
		if env.Config.Profile == "" {
			env.Config.Profile = req.Profile
		}
		if env.Config.Region == "" {
			env.Config.Region = req.Region
		}
		for _, group := range req.Selections.Groups() {
			selection.Add(group.Type, group.Ids...)
		}
	}

	if ArnsFile != "" {
		arns, err := parseArnsFile(ArnsFile)
		if err != nil {
			return selection, err
		}
		for _, group := range resources.SelectionFromARNs(arns).Groups() {
			selection.Add(group.Type, group.Ids...)
		}
	}
	return selection, nil
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func parseSelectionsFile(path string) (req resources.Request, err error) {
	f, err := open(path)
	if err != nil {
		return req, errors.Wrapf(err, "opening selections file")
	}
	defer f.Close()
	req, err = resources.ParseRequest(f)
	if err != nil {
		return req, errors.Wrapf(err, "parsing %s", path)
	}
	return req, nil
}

func parseArnsFile(path string) (arns []string, err error) {
	f, err := open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening arns file")
	}
	defer f.Close()
	if err = json.NewDecoder(f).Decode(&arns); err != nil {
		return nil, errors.Wrapf(resources.ErrMalformedRequest, "parsing %s: %v", path, err)
	}
	return arns, nil
}

func printSelection(w io.Writer, selection resources.SelectionSet) {
	for _, group := range selection.Groups() {
		fmt.Fprintf(w, "%s (%d):\n", group.Type, len(group.Ids))
		for _, id := range group.Ids {
			fmt.Fprintf(w, "  - %s\n", id)
		}
	}
}

func confirm(in io.Reader, w io.Writer, total int) bool {
	fmt.Fprintf(w, "Delete %d resources? This cannot be undone [y/N]: ", total)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func run(cmd *cobra.Command) error {
	if (SelectionsFile == "-" || ArnsFile == "-") && !AssumeYes && !DryRun {
		return errors.New("--yes is required when reading the selection from stdin")
	}
	selection, err := readSelection()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if Output == "json" {
		logging.Out = cmd.ErrOrStderr()
		out = cmd.ErrOrStderr()
	}

	if selection.Len() == 0 {
		logging.UserWarning("no resources selected")
		return render(cmd.OutOrStdout(), report.New(nil))
	}

	printSelection(out, selection)
	if DryRun {
		logging.UserInfo("dry run, %d resources would be deleted", selection.Len())
		return nil
	}
	if !AssumeYes && !confirm(cmd.InOrStdin(), out, selection.Len()) {
		logging.UserWarning("deletion aborted")
		return nil
	}

	clients, err := common.Session()
	if err != nil {
		return err
	}

	workers := Workers
	if workers == 0 {
		workers = env.Config.Workers
	}
	d := destroyer.New(
		clients,
		cleaner.DefaultRegistry(common.CleanerOptions()),
		destroyer.WithWorkers(workers),
		destroyer.WithRetry(common.RetryPolicy()),
	)

	logging.UserProgress("Deleting %d resources in %s...", selection.Len(), clients.Region)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	r := report.New(d.Run(ctx, selection))
	if err = render(cmd.OutOrStdout(), r); err != nil {
		return err
	}

	if r.Summary.Failed > 0 {
		logging.UserFailure("%d of %d resources failed to delete", r.Summary.Failed, r.Total())
		return fmt.Errorf("%d resources failed to delete", r.Summary.Failed)
	}
	logging.UserSuccess("All %d resources were deleted successfully!", r.Summary.Deleted)
	return nil
}

func render(w io.Writer, r report.Report) error {
	if Output == "json" {
		return r.WriteJSON(w)
	}
	r.RenderTable(w)
	return nil
}

func init() {
	Wipe.Flags().StringVarP(&SelectionsFile, "file", "f", "", "Selections JSON file, - for stdin")
	Wipe.Flags().StringVar(&ArnsFile, "arns-file", "", "JSON array of resource ARNs")
	Wipe.Flags().BoolVarP(&AssumeYes, "yes", "y", false, "Skip confirmation")
	Wipe.Flags().BoolVar(&DryRun, "dry-run", false, "Print the selected resources without deleting them")
	Wipe.Flags().IntVarP(&Workers, "workers", "w", 0, "Number of resource types deleted in parallel")
	Wipe.Flags().StringVarP(&Output, "output", "o", "table", "Output format: table or json")
}
