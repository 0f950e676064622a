package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signalnine/skillbench/internal/agent"
	"github.com/signalnine/skillbench/internal/budget"
	"github.com/signalnine/skillbench/internal/config"
	"github.com/signalnine/skillbench/internal/judge"
	"github.com/signalnine/skillbench/internal/prompts"
	"github.com/signalnine/skillbench/internal/report"
	"github.com/signalnine/skillbench/internal/result"
	"github.com/signalnine/skillbench/internal/runner"
	"github.com/signalnine/skillbench/internal/skill"
	"github.com/signalnine/skillbench/internal/workspace"
)

var (
	flagSkillDir   string
	flagTrials     int
	flagAgentModel string
	flagJudgeModel string
	flagBudget     float64
	flagParallel   int
	flagResultsDir string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an A/B evaluation of a skill bundle",
		RunE:  runEvaluation,
	}
	cmd.Flags().StringVar(&flagSkillDir, "skill", "", "path to the skill bundle directory")
	cmd.Flags().IntVar(&flagTrials, "trials", 0, "override trial count")
	cmd.Flags().StringVar(&flagAgentModel, "agent-model", "", "model for the agent under test")
	cmd.Flags().StringVar(&flagJudgeModel, "judge-model", "", "model for the judge")
	cmd.Flags().Float64Var(&flagBudget, "budget", 0, "total budget in USD")
	cmd.Flags().IntVar(&flagParallel, "parallel", 1, "max concurrent trials")
	cmd.Flags().StringVar(&flagResultsDir, "results-dir", "", "override results directory")
	cmd.MarkFlagRequired("skill")
	return cmd
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if flagTrials > 0 {
		cfg.Trials = flagTrials
	}
	if flagAgentModel != "" {
		cfg.Agent.Model = flagAgentModel
	}
	if flagJudgeModel != "" {
		cfg.Agent.JudgeModel = flagJudgeModel
	}
	if flagBudget > 0 {
		cfg.BudgetUSD = flagBudget
	}
	if flagResultsDir != "" {
		cfg.Results.Dir = flagResultsDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	meta, err := skill.Load(flagSkillDir)
	if err != nil {
		return err
	}
	perRun, err := budget.PerRun(cfg.BudgetUSD, cfg.Trials)
	if err != nil {
		return err
	}

	runDir, err := result.CreateRunDir(cfg.Results.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("Run directory: %s\n", runDir)
	fmt.Printf("Evaluating %q: %d trials, $%.2f total budget ($%.4f per call)\n",
		meta.Name, cfg.Trials, cfg.BudgetUSD, perRun)

	ctx := context.Background()
	client := &agent.Client{
		Bin:     cfg.Agent.Bin,
		Timeout: time.Duration(cfg.Agent.TimeoutMinutes) * time.Minute,
	}

	gen := &prompts.Generator{Agent: client, Model: cfg.Agent.Model, BudgetUSD: perRun}
	pool := gen.Generate(ctx, meta, cfg.Trials)

	tracker := budget.NewTracker(cfg.BudgetUSD)
	scorer := &judge.Judge{Agent: client, Model: cfg.Agent.JudgeModel, BudgetUSD: perRun}
	opts := &runner.Options{
		Agent:           client,
		Model:           cfg.Agent.Model,
		SkillDir:        meta.Dir,
		AllowedSkills:   cfg.Agent.AllowedSkills,
		PerRunBudgetUSD: perRun,
		RunDir:          runDir,
		Workspaces:      workspace.NewManager(filepath.Join(runDir, "scratch")),
		Seeds:           workspace.DefaultSeeds(),
	}

	trials := make([]*result.Trial, cfg.Trials)
	jobs := make([]runner.Job, cfg.Trials)
	for i := 0; i < cfg.Trials; i++ {
		index := i + 1
		prompt := pool[i]
		jobs[i] = func() error {
			// Once remaining budget cannot cover a full trial, stop
			// starting new ones. Completed trials are still judged.
			if !tracker.CanAfford(budget.CallsPerTrial * perRun) {
				return fmt.Errorf("trial %d not started: budget exhausted ($%.2f spent)", index, tracker.Spent())
			}
			fmt.Printf("Trial %d/%d...\n", index, cfg.Trials)

			tracker.Charge(2 * perRun)
			t, err := runner.RunTrial(ctx, index, prompt, opts)
			trials[index-1] = t
			if err != nil {
				logrus.WithError(err).WithField("trial", index).Warn("trial artifacts incomplete")
			}

			tracker.Charge(perRun)
			rec, err := scorer.Score(ctx, t)
			if err != nil {
				logrus.WithError(err).WithField("trial", index).Warn("judging failed, trial excluded from aggregation")
				return nil
			}
			t.Scores = rec
			if err := result.WriteScores(result.TrialDir(runDir, index), rec); err != nil {
				logrus.WithError(err).WithField("trial", index).Warn("writing scores failed")
			}
			return nil
		}
	}

	for _, err := range runner.RunPool(flagParallel, jobs) {
		fmt.Printf("  ERROR: %v\n", err)
	}

	var attempted []*result.Trial
	for _, t := range trials {
		if t != nil {
			attempted = append(attempted, t)
		}
	}

	rep, err := report.Aggregate(meta.Name, attempted)
	if err != nil {
		return err
	}
	if err := report.Write(runDir, rep); err != nil {
		return err
	}

	fmt.Printf("\n%d valid trials of %d attempted\n", rep.ValidTrials, rep.AttemptedTrials)
	fmt.Println("\n--- Results ---")
	return report.Render(rep, "table", os.Stdout)
}
