package report_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/signalnine/skillbench/internal/report"
	"github.com/signalnine/skillbench/internal/result"
)

func uniformScores(v float64) result.DimensionScores {
	s := make(result.DimensionScores, len(result.Dimensions))
	for _, dim := range result.Dimensions {
		s[dim] = v
	}
	return s
}

func scoredTrial(index int, control, treatment float64) *result.Trial {
	return &result.Trial{
		Index:     index,
		Prompt:    "p",
		Control:   "c",
		Treatment: "t",
		Scores: &result.ScoreRecord{
			Control:   uniformScores(control),
			Treatment: uniformScores(treatment),
		},
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		delta float64
		want  string
	}{
		{3.0, report.VerdictStrongPlus},
		{2.0, report.VerdictStrongPlus},
		{1.9, report.VerdictModeratePlus},
		{0.5, report.VerdictModeratePlus},
		{0.49, report.VerdictNeutral},
		{0.0, report.VerdictNeutral},
		{-0.5, report.VerdictNeutral},
		{-0.51, report.VerdictModerateMinus},
		{-2.0, report.VerdictModerateMinus},
		{-2.01, report.VerdictStrongMinus},
	}
	for _, tt := range tests {
		if got := report.Classify(tt.delta); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestAggregateExcludesUnjudgedTrials(t *testing.T) {
	trials := []*result.Trial{
		scoredTrial(1, 4, 6),
		{Index: 2, Prompt: "p"},
		scoredTrial(3, 5, 7),
		{Index: 4, Prompt: "p"},
		scoredTrial(5, 6, 8),
	}
	rep, err := report.Aggregate("x", trials)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rep.ValidTrials != 3 {
		t.Errorf("valid trials: got %d, want 3", rep.ValidTrials)
	}
	if rep.AttemptedTrials != 5 {
		t.Errorf("attempted trials: got %d, want 5", rep.AttemptedTrials)
	}
	// Means over the 3 valid trials only: control (4+5+6)/3, treatment (6+7+8)/3.
	acc := rep.Dimensions["accuracy"]
	if math.Abs(acc.ControlMean-5.0) > 1e-9 || math.Abs(acc.TreatmentMean-7.0) > 1e-9 {
		t.Errorf("accuracy means: got %v/%v, want 5/7", acc.ControlMean, acc.TreatmentMean)
	}
}

func TestAggregateUniformImprovement(t *testing.T) {
	trials := []*result.Trial{
		scoredTrial(1, 5, 7),
		scoredTrial(2, 5, 7),
		scoredTrial(3, 5, 7),
	}
	rep, err := report.Aggregate("terraform-modules", trials)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for _, dim := range result.Dimensions {
		s := rep.Dimensions[dim]
		if math.Abs(s.Delta-2.0) > 1e-9 {
			t.Errorf("%s delta: got %v, want 2.0", dim, s.Delta)
		}
		if s.Verdict != report.VerdictStrongPlus {
			t.Errorf("%s verdict: got %q, want STRONG+", dim, s.Verdict)
		}
	}
	if math.Abs(rep.Overall.ControlMean-5.0) > 1e-9 {
		t.Errorf("overall control: got %v, want 5.0", rep.Overall.ControlMean)
	}
	if math.Abs(rep.Overall.TreatmentMean-7.0) > 1e-9 {
		t.Errorf("overall treatment: got %v, want 7.0", rep.Overall.TreatmentMean)
	}
	if math.Abs(rep.Overall.Delta-2.0) > 1e-9 {
		t.Errorf("overall delta: got %v, want +2.0", rep.Overall.Delta)
	}
	if rep.Overall.Verdict != report.VerdictStrongPlus {
		t.Errorf("overall verdict: got %q, want STRONG+", rep.Overall.Verdict)
	}
	if rep.Interpretation != "skill significantly improves responses" {
		t.Errorf("interpretation: got %q", rep.Interpretation)
	}
}

func TestAggregateOverallIsMeanOfDimensionMeans(t *testing.T) {
	// Uneven dimensions: overall must average the five dimension
	// means, not per-trial totals.
	trial := &result.Trial{
		Index: 1,
		Scores: &result.ScoreRecord{
			Control: result.DimensionScores{
				"accuracy": 2, "completeness": 4, "best_practices": 6, "error_avoidance": 8, "specificity": 10,
			},
			Treatment: result.DimensionScores{
				"accuracy": 3, "completeness": 5, "best_practices": 7, "error_avoidance": 9, "specificity": 10,
			},
		},
	}
	rep, err := report.Aggregate("x", []*result.Trial{trial})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if math.Abs(rep.Overall.ControlMean-6.0) > 1e-9 {
		t.Errorf("overall control: got %v, want 6.0", rep.Overall.ControlMean)
	}
	if math.Abs(rep.Overall.TreatmentMean-6.8) > 1e-9 {
		t.Errorf("overall treatment: got %v, want 6.8", rep.Overall.TreatmentMean)
	}
}

func TestAggregateNoValidTrials(t *testing.T) {
	trials := []*result.Trial{
		{Index: 1, Prompt: "p"},
		{Index: 2, Prompt: "p"},
	}
	_, err := report.Aggregate("x", trials)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, report.ErrNoValidTrials) {
		t.Errorf("error not classified: %v", err)
	}
}
