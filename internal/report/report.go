package report

import (
	"encoding/json"
	"github.com/olekukonko/tablewriter"
	"io"
	"wipeit/internal/resources"
)

type Summary struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Report is the caller facing view of a run.
type Report struct {
	Results []resources.Outcome `json:"results"`
	Summary Summary             `json:"summary"`
}

func New(outcomes []resources.Outcome) Report {
	r := Report{Results: make([]resources.Outcome, 0, len(outcomes))}
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			r.Summary.Deleted++
		} else {
			r.Summary.Failed++
		}
		r.Results = append(r.Results, outcome)
	}
	return r
}

func (r Report) Total() int {
	return len(r.Results)
}

func (r Report) Failures() (failures []resources.Outcome) {
	for _, outcome := range r.Results {
		if !outcome.Succeeded() {
			failures = append(failures, outcome)
		}
	}
	return
}

func (r Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

func RenderTable(w io.Writer, fields []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(fields)
	table.SetRowLine(true)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}

func (r Report) RenderTable(w io.Writer) {
	data := make([][]string, 0, len(r.Results))
	for _, outcome := range r.Results {
		data = append(data, []string{string(outcome.Type), outcome.Resource, string(outcome.Status), outcome.Error})
	}
	RenderTable(w, []string{"Type", "Resource", "Status", "Error"}, data)
}
