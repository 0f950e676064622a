package judge_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/signalnine/skillbench/internal/agent"
	"github.com/signalnine/skillbench/internal/judge"
	"github.com/signalnine/skillbench/internal/result"
)

const fullJudgment = `{"control": {"accuracy": 5, "completeness": 4, "best_practices": 6, "error_avoidance": 5, "specificity": 3}, "treatment": {"accuracy": 8, "completeness": 7, "best_practices": 9, "error_avoidance": 8, "specificity": 7}}`

func TestParseScoreRecordValid(t *testing.T) {
	rec, err := judge.ParseScoreRecord(fullJudgment)
	if err != nil {
		t.Fatalf("ParseScoreRecord: %v", err)
	}
	if rec.Control["completeness"] != 4 {
		t.Errorf("control.completeness: got %v, want 4", rec.Control["completeness"])
	}
	if rec.Treatment["best_practices"] != 9 {
		t.Errorf("treatment.best_practices: got %v, want 9", rec.Treatment["best_practices"])
	}
	for _, dim := range result.Dimensions {
		if _, ok := rec.Control[dim]; !ok {
			t.Errorf("control missing %s", dim)
		}
		if _, ok := rec.Treatment[dim]; !ok {
			t.Errorf("treatment missing %s", dim)
		}
	}
}

func TestParseScoreRecordProseWrapped(t *testing.T) {
	// The rubric is often restated before the answer; the last JSON
	// object is the judgment.
	input := "The expected shape is {\"control\": {}, \"treatment\": {}}.\n\nMy evaluation:\n" + fullJudgment + "\n"
	rec, err := judge.ParseScoreRecord(input)
	if err != nil {
		t.Fatalf("ParseScoreRecord: %v", err)
	}
	if rec.Control["accuracy"] != 5 || rec.Treatment["accuracy"] != 8 {
		t.Errorf("wrong span extracted: %+v", rec)
	}
}

func TestParseScoreRecordFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no json", "I cannot score this."},
		{"not parseable", `{"control": not json}`},
		{"missing treatment key", `{"control": {"accuracy": 5, "completeness": 5, "best_practices": 5, "error_avoidance": 5, "specificity": 5}}`},
		{"missing dimension", `{"control": {"accuracy": 5, "completeness": 5, "best_practices": 5, "error_avoidance": 5}, "treatment": {"accuracy": 5, "completeness": 5, "best_practices": 5, "error_avoidance": 5, "specificity": 5}}`},
	}
	for _, tt := range tests {
		rec, err := judge.ParseScoreRecord(tt.input)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
		if rec != nil {
			t.Errorf("%s: partial record must not be produced: %+v", tt.name, rec)
		}
	}
}

func TestParseScoreRecordNullAndOutOfRange(t *testing.T) {
	input := `{"control": {"accuracy": null, "completeness": -3, "best_practices": 15, "error_avoidance": 5, "specificity": 5}, "treatment": {"accuracy": 7, "completeness": 7, "best_practices": 7, "error_avoidance": 7, "specificity": 7}}`
	rec, err := judge.ParseScoreRecord(input)
	if err != nil {
		t.Fatalf("ParseScoreRecord: %v", err)
	}
	if rec.Control["accuracy"] != 0 {
		t.Errorf("null should decode as 0, got %v", rec.Control["accuracy"])
	}
	if rec.Control["completeness"] != 0 {
		t.Errorf("negative should clamp to 0, got %v", rec.Control["completeness"])
	}
	if rec.Control["best_practices"] != 10 {
		t.Errorf("over-range should clamp to 10, got %v", rec.Control["best_practices"])
	}
}

type stubInvoker struct {
	out    string
	err    error
	prompt string
}

func (s *stubInvoker) Invoke(ctx context.Context, opts *agent.InvokeOpts) (string, error) {
	s.prompt = opts.Prompt
	return s.out, s.err
}

func TestScore(t *testing.T) {
	inv := &stubInvoker{out: "Sure!\n" + fullJudgment}
	j := &judge.Judge{Agent: inv, Model: "smart-1", BudgetUSD: 0.1}
	trial := &result.Trial{Index: 1, Prompt: "How do I X?", Control: "ctl answer", Treatment: "trt answer"}

	rec, err := j.Score(context.Background(), trial)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if rec.Treatment["specificity"] != 7 {
		t.Errorf("treatment.specificity: got %v, want 7", rec.Treatment["specificity"])
	}
	for _, needle := range []string{"How do I X?", "ctl answer", "trt answer", "error_avoidance"} {
		if !strings.Contains(inv.prompt, needle) {
			t.Errorf("judge prompt missing %q", needle)
		}
	}
}

func TestScoreInvocationFailure(t *testing.T) {
	inv := &stubInvoker{err: errors.New("timeout")}
	j := &judge.Judge{Agent: inv, Model: "smart-1", BudgetUSD: 0.1}
	rec, err := j.Score(context.Background(), &result.Trial{Index: 1, Prompt: "p"})
	if err == nil {
		t.Fatal("expected error")
	}
	if rec != nil {
		t.Errorf("no record expected on failure, got %+v", rec)
	}
}
