// Package judge scores a control/treatment response pair by invoking
// the agent as an evaluator and extracting a structured score record
// from its free-form output.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/signalnine/skillbench/internal/agent"
	"github.com/signalnine/skillbench/internal/result"
)

type Judge struct {
	Agent     agent.Invoker
	Model     string
	BudgetUSD float64
}

// Score judges one trial. A malformed judgment yields no record at all;
// there is no retry, the trial is simply excluded from aggregation.
func (j *Judge) Score(ctx context.Context, t *result.Trial) (*result.ScoreRecord, error) {
	out, err := j.Agent.Invoke(ctx, &agent.InvokeOpts{
		Prompt:    BuildPrompt(t),
		Model:     j.Model,
		BudgetUSD: j.BudgetUSD,
	})
	if err != nil {
		return nil, errors.Wrap(err, "judge invocation")
	}
	return ParseScoreRecord(out)
}

// BuildPrompt embeds the original prompt, both responses, and the
// rubric into a single evaluator prompt.
func BuildPrompt(t *result.Trial) string {
	var b strings.Builder
	b.WriteString("You are evaluating two AI assistant responses to the same prompt.\n\n")
	fmt.Fprintf(&b, "Original prompt:\n%s\n\n", t.Prompt)
	fmt.Fprintf(&b, "Response A (control):\n%s\n\n", t.Control)
	fmt.Fprintf(&b, "Response B (treatment):\n%s\n\n", t.Treatment)
	b.WriteString(`Score BOTH responses on each dimension from 0 to 10:
- accuracy: factual and technical correctness
- completeness: addresses every part of the prompt
- best_practices: follows established conventions for the domain
- error_avoidance: steers clear of known pitfalls and anti-patterns
- specificity: concrete, actionable detail rather than generalities

Respond with ONLY a JSON object with exactly two top-level keys,
"control" and "treatment", each mapping all five dimension names to a
number. Example:
{"control": {"accuracy": 5, "completeness": 5, "best_practices": 5, "error_avoidance": 5, "specificity": 5}, "treatment": {"accuracy": 5, "completeness": 5, "best_practices": 5, "error_avoidance": 5, "specificity": 5}}`)
	return b.String()
}

// ParseScoreRecord extracts and validates a score record from raw judge
// output. Validation is all-or-nothing: both top-level keys and all
// five dimensions must be present, otherwise no record is produced.
// A present-but-null value inside an otherwise complete structure
// decodes as 0.
func ParseScoreRecord(raw string) (*result.ScoreRecord, error) {
	span, ok := ExtractTrailingJSONObject(raw)
	if !ok {
		return nil, errors.New("no JSON object in judge response")
	}
	var parsed struct {
		Control   map[string]*float64 `json:"control"`
		Treatment map[string]*float64 `json:"treatment"`
	}
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, errors.Wrap(err, "parsing judge response")
	}
	control, err := buildSide("control", parsed.Control)
	if err != nil {
		return nil, err
	}
	treatment, err := buildSide("treatment", parsed.Treatment)
	if err != nil {
		return nil, err
	}
	return &result.ScoreRecord{Control: control, Treatment: treatment}, nil
}

func buildSide(key string, m map[string]*float64) (result.DimensionScores, error) {
	if m == nil {
		return nil, errors.Errorf("judge response missing %q key", key)
	}
	scores := make(result.DimensionScores, len(result.Dimensions))
	for _, dim := range result.Dimensions {
		v, ok := m[dim]
		if !ok {
			return nil, errors.Errorf("judge response missing %s.%s", key, dim)
		}
		scores[dim] = clamp(v)
	}
	return scores, nil
}

func clamp(v *float64) float64 {
	if v == nil {
		return 0
	}
	switch {
	case *v < 0:
		return 0
	case *v > 10:
		return 10
	}
	return *v
}
