// Package prompts produces the pool of evaluation prompts for a run.
package prompts

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/signalnine/skillbench/internal/agent"
	"github.com/signalnine/skillbench/internal/skill"
)

type Generator struct {
	Agent     agent.Invoker
	Model     string
	BudgetUSD float64
	// Rand is overridable for deterministic selection in tests.
	Rand *rand.Rand
}

// Generate returns exactly count non-empty prompts. It asks the agent
// for a pool of realistic prompts first and falls back to templated
// ones when the call fails or comes up short, so it never errors.
func (g *Generator) Generate(ctx context.Context, meta *skill.Metadata, count int) []string {
	pool := g.fromAgent(ctx, meta, count)
	if len(pool) < count {
		if len(pool) > 0 {
			logrus.WithField("got", len(pool)).Warn("agent returned too few prompts, using fallback pool")
		} else {
			logrus.Warn("prompt generation failed, using fallback pool")
		}
		pool = FallbackPrompts(meta)
	}
	return selectPrompts(pool, count, g.rng())
}

func (g *Generator) fromAgent(ctx context.Context, meta *skill.Metadata, count int) []string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are preparing an evaluation of an AI skill package.\n\n")
	fmt.Fprintf(&b, "Skill name: %s\nSkill description: %s\n", meta.Name, meta.Description)
	if meta.WhenToUse != "" {
		fmt.Fprintf(&b, "When to use:\n%s\n", meta.WhenToUse)
	}
	fmt.Fprintf(&b, "\nWrite %d realistic prompts a developer might ask that would plausibly trigger this skill. ", 2*count)
	b.WriteString("One prompt per line. No numbering, no bullets, no commentary.")

	out, err := g.Agent.Invoke(ctx, &agent.InvokeOpts{
		Prompt:    b.String(),
		Model:     g.Model,
		BudgetUSD: g.BudgetUSD,
	})
	if err != nil {
		logrus.WithError(err).Warn("prompt generation invocation failed")
		return nil
	}
	return ParseLines(out)
}

// ParseLines splits raw agent output into candidate prompts: one per
// line, trimmed, empties discarded.
func ParseLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FallbackPrompts is the correctness backstop: a fixed template set
// that can satisfy any count on its own.
func FallbackPrompts(meta *skill.Metadata) []string {
	name := meta.Name
	return []string{
		fmt.Sprintf("How do I use %s effectively in my project?", name),
		fmt.Sprintf("What are common mistakes to avoid when working with %s?", name),
		fmt.Sprintf("Walk me through setting up %s from scratch.", name),
		fmt.Sprintf("My %s workflow isn't behaving as expected. How should I debug it?", name),
		fmt.Sprintf("What are the best practices for %s?", name),
	}
}

// selectPrompts picks exactly count prompts from the pool: a shuffle
// for variety, then modular indexing so count may exceed the pool size
// (prompts repeat rather than the run aborting).
func selectPrompts(pool []string, count int, rng *rand.Rand) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	shuffled := append([]string(nil), pool...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	out := make([]string, count)
	for i := range out {
		out[i] = shuffled[i%len(shuffled)]
	}
	return out
}

func (g *Generator) rng() *rand.Rand {
	if g.Rand != nil {
		return g.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
