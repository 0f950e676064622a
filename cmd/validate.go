package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/signalnine/skillbench/internal/skill"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <skill-dir>",
		Short: "Check that a skill bundle is usable for evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := skill.Load(args[0])
			if err != nil {
				return err
			}
			if meta.Description == "" {
				return errors.Wrapf(skill.ErrInvalidBundle,
					"%s has no description or trigger field", args[0])
			}
			fmt.Printf("OK: %s\n", meta.Name)
			if meta.WhenToUse == "" {
				fmt.Println("note: no \"When to Use\" section; prompt generation will rely on the description alone")
			}
			return nil
		},
	}
}
