package cmd

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/signalnine/skillbench/internal/config"
	"github.com/signalnine/skillbench/internal/report"
	"github.com/signalnine/skillbench/internal/skill"
)

var (
	cfgFile     string
	flagVerbose bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "skillbench",
		Short:        "A/B evaluation harness for agent skill bundles",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "skillbench.yaml", "config file path")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	root.AddCommand(newRunCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// ExitCode maps the fatal error classes to distinct process exit codes
// so calling automation can branch on outcome: 2 for configuration or
// bundle problems, 3 when no trial produced a valid score.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, config.ErrInvalid), errors.Is(err, skill.ErrInvalidBundle):
		return 2
	case errors.Is(err, report.ErrNoValidTrials):
		return 3
	default:
		return 1
	}
}
