package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/signalnine/skillbench/internal/result"
)

const reportFile = "report.json"

// Write persists the report as a single JSON document in the run dir.
func Write(runDir string, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling report")
	}
	return os.WriteFile(filepath.Join(runDir, reportFile), data, 0o644)
}

func Load(runDir string) (*Report, error) {
	data, err := os.ReadFile(filepath.Join(runDir, reportFile))
	if err != nil {
		return nil, errors.Wrap(err, "reading report")
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "parsing report")
	}
	return &r, nil
}

func Render(r *Report, format string, w io.Writer) error {
	switch format {
	case "markdown":
		return writeMarkdown(r, w)
	case "json":
		return writeJSON(r, w)
	default:
		return writeTable(r, w)
	}
}

func writeTable(r *Report, w io.Writer) error {
	fmt.Fprintf(w, "Skill: %s (%d valid trials of %d attempted)\n\n", r.Skill, r.ValidTrials, r.AttemptedTrials)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tCONTROL\tTREATMENT\tDELTA\tVERDICT")
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	for _, dim := range result.Dimensions {
		s := r.Dimensions[dim]
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%+.2f\t%s\n",
			dim, s.ControlMean, s.TreatmentMean, s.Delta, s.Verdict)
	}
	fmt.Fprintln(tw, strings.Repeat("-", 60))
	fmt.Fprintf(tw, "overall\t%.2f\t%.2f\t%+.2f\t%s\n",
		r.Overall.ControlMean, r.Overall.TreatmentMean, r.Overall.Delta, r.Overall.Verdict)
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%s\n", r.Interpretation)
	return nil
}

func writeMarkdown(r *Report, w io.Writer) error {
	fmt.Fprintf(w, "## %s\n\n%d valid trials of %d attempted\n\n", r.Skill, r.ValidTrials, r.AttemptedTrials)
	fmt.Fprintln(w, "| Dimension | Control | Treatment | Delta | Verdict |")
	fmt.Fprintln(w, "|---|---|---|---|---|")
	for _, dim := range result.Dimensions {
		s := r.Dimensions[dim]
		fmt.Fprintf(w, "| %s | %.2f | %.2f | %+.2f | %s |\n",
			dim, s.ControlMean, s.TreatmentMean, s.Delta, s.Verdict)
	}
	fmt.Fprintf(w, "| **overall** | %.2f | %.2f | %+.2f | %s |\n",
		r.Overall.ControlMean, r.Overall.TreatmentMean, r.Overall.Delta, r.Overall.Verdict)
	fmt.Fprintf(w, "\n%s\n", r.Interpretation)
	return nil
}

func writeJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
