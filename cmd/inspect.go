package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/skillbench/internal/skill"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <skill-dir>",
		Short: "Show the parsed metadata of a skill bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := skill.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Name:        %s\n", meta.Name)
			fmt.Printf("Description: %s\n", meta.Description)
			fmt.Printf("Directory:   %s\n", meta.Dir)
			printSection("When to Use", meta.WhenToUse)
			printSection("Common Mistakes", meta.CommonMistakes)
			printSection("Core Patterns", meta.CorePatterns)
			return nil
		},
	}
}

func printSection(title, body string) {
	if body == "" {
		return
	}
	fmt.Printf("\n%s:\n%s\n", title, body)
}
