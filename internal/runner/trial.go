package runner

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/signalnine/skillbench/internal/agent"
	"github.com/signalnine/skillbench/internal/result"
	"github.com/signalnine/skillbench/internal/workspace"
)

// FailureSentinel replaces a run's response when its invocation fails.
// A sentinel response scores near the floor on every dimension, so one
// flaky call degrades the sample instead of aborting the batch.
const FailureSentinel = "[AGENT INVOCATION FAILED]"

type Options struct {
	Agent           agent.Invoker
	Model           string
	SkillDir        string
	AllowedSkills   []string
	PerRunBudgetUSD float64
	RunDir          string
	Workspaces      *workspace.Manager
	Seeds           map[string]string
}

// RunTrial executes the control run (no skill attached) and the
// treatment run (skill dir attached) for one prompt, each in its own
// scratch workspace seeded identically. Both raw responses are
// persisted even when they are sentinels. The Trial is returned even
// when the error is non-nil; only artifact persistence can fail.
func RunTrial(ctx context.Context, index int, prompt string, opts *Options) (*result.Trial, error) {
	t := &result.Trial{Index: index, Prompt: prompt}

	t.Control = runCondition(ctx, index, "control", prompt, "", opts)
	t.Treatment = runCondition(ctx, index, "treatment", prompt, opts.SkillDir, opts)

	trialDir := result.TrialDir(opts.RunDir, index)
	if err := result.WriteTrialArtifacts(trialDir, t); err != nil {
		return t, errors.Wrapf(err, "persisting trial %d", index)
	}
	return t, nil
}

func runCondition(ctx context.Context, index int, role, prompt, skillDir string, opts *Options) string {
	log := logrus.WithFields(logrus.Fields{"trial": index, "role": role})

	dir, err := opts.Workspaces.Create(fmt.Sprintf("trial%d-%s", index, role), opts.Seeds)
	if err != nil {
		log.WithError(err).Warn("workspace creation failed")
		return FailureSentinel
	}
	defer func() {
		if err := opts.Workspaces.Destroy(dir); err != nil {
			log.WithError(err).Warn("workspace cleanup failed")
		}
	}()

	out, err := opts.Agent.Invoke(ctx, &agent.InvokeOpts{
		Prompt:        prompt,
		Model:         opts.Model,
		BudgetUSD:     opts.PerRunBudgetUSD,
		WorkDir:       dir,
		SkillDir:      skillDir,
		AllowedSkills: opts.AllowedSkills,
	})
	if err != nil {
		log.WithError(err).Warn("invocation failed")
		return FailureSentinel
	}
	return out
}
