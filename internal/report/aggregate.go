// Package report combines judged trials into per-dimension and overall
// statistics and renders the final report.
package report

import (
	"github.com/pkg/errors"

	"github.com/signalnine/skillbench/internal/result"
)

// ErrNoValidTrials is the terminal failure when not a single trial
// produced a valid score: there is nothing meaningful to report.
var ErrNoValidTrials = errors.New("no trials produced a valid score")

const (
	VerdictStrongPlus    = "STRONG+"
	VerdictModeratePlus  = "MODERATE+"
	VerdictNeutral       = "NEUTRAL"
	VerdictModerateMinus = "MODERATE-"
	VerdictStrongMinus   = "STRONG-"
)

type DimensionStats struct {
	ControlMean   float64 `json:"control_mean"`
	TreatmentMean float64 `json:"treatment_mean"`
	Delta         float64 `json:"delta"`
	Verdict       string  `json:"verdict"`
}

type Report struct {
	Skill           string                    `json:"skill"`
	ValidTrials     int                       `json:"valid_trials"`
	AttemptedTrials int                       `json:"attempted_trials"`
	Dimensions      map[string]DimensionStats `json:"dimensions"`
	Overall         DimensionStats            `json:"overall"`
	Interpretation  string                    `json:"interpretation"`
}

// Classify buckets a delta on the 0-10 scale. Boundaries are inclusive
// on the positive side: a delta of exactly -0.5 is still NEUTRAL and
// exactly -2.0 is still MODERATE-.
func Classify(delta float64) string {
	switch {
	case delta >= 2.0:
		return VerdictStrongPlus
	case delta >= 0.5:
		return VerdictModeratePlus
	case delta >= -0.5:
		return VerdictNeutral
	case delta >= -2.0:
		return VerdictModerateMinus
	default:
		return VerdictStrongMinus
	}
}

var interpretations = map[string]string{
	VerdictStrongPlus:    "skill significantly improves responses",
	VerdictModeratePlus:  "skill moderately improves responses",
	VerdictNeutral:       "skill has no significant effect on responses",
	VerdictModerateMinus: "skill moderately degrades responses",
	VerdictStrongMinus:   "skill significantly degrades responses",
}

func Interpretation(verdict string) string {
	return interpretations[verdict]
}

// Aggregate filters to trials with a valid score record and computes
// per-dimension means and deltas. The overall score per side is the
// unweighted mean of the five dimension means (dimension-mean-first),
// not a mean of per-trial totals.
func Aggregate(skillName string, trials []*result.Trial) (*Report, error) {
	var valid []*result.Trial
	for _, t := range trials {
		if t != nil && t.Scores != nil {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return nil, errors.Wrapf(ErrNoValidTrials, "%d trials attempted", len(trials))
	}

	n := float64(len(valid))
	dims := make(map[string]DimensionStats, len(result.Dimensions))
	var controlSum, treatmentSum float64
	for _, dim := range result.Dimensions {
		var c, tr float64
		for _, t := range valid {
			c += t.Scores.Control[dim]
			tr += t.Scores.Treatment[dim]
		}
		cm, tm := c/n, tr/n
		delta := tm - cm
		dims[dim] = DimensionStats{
			ControlMean:   cm,
			TreatmentMean: tm,
			Delta:         delta,
			Verdict:       Classify(delta),
		}
		controlSum += cm
		treatmentSum += tm
	}

	k := float64(len(result.Dimensions))
	overallControl := controlSum / k
	overallTreatment := treatmentSum / k
	overallDelta := overallTreatment - overallControl
	overall := DimensionStats{
		ControlMean:   overallControl,
		TreatmentMean: overallTreatment,
		Delta:         overallDelta,
		Verdict:       Classify(overallDelta),
	}

	return &Report{
		Skill:           skillName,
		ValidTrials:     len(valid),
		AttemptedTrials: len(trials),
		Dimensions:      dims,
		Overall:         overall,
		Interpretation:  Interpretation(overall.Verdict),
	}, nil
}
