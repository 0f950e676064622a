package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid classifies configuration problems that should halt the run
// before any trial is attempted.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Agent     Agent   `yaml:"agent"`
	Trials    int     `yaml:"trials"`
	BudgetUSD float64 `yaml:"budget_usd"`
	Results   Results `yaml:"results"`
}

type Agent struct {
	Bin            string   `yaml:"bin"`
	Model          string   `yaml:"model"`
	JudgeModel     string   `yaml:"judge_model"`
	TimeoutMinutes int      `yaml:"timeout_minutes"`
	AllowedSkills  []string `yaml:"allowed_skills"`
}

type Results struct {
	Dir string `yaml:"dir"`
}

func Default() *Config {
	return &Config{
		Agent: Agent{
			Bin:            "claude",
			Model:          "haiku",
			JudgeModel:     "sonnet",
			TimeoutMinutes: 5,
		},
		Trials:    3,
		BudgetUSD: 2.00,
		Results:   Results{Dir: "results"},
	}
}

// Load reads a YAML config file on top of the defaults. A missing file
// is not an error: the harness is fully parameterizable from flags.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Trials < 1 {
		return errors.Wrapf(ErrInvalid, "trials must be at least 1, got %d", c.Trials)
	}
	if c.BudgetUSD <= 0 {
		return errors.Wrapf(ErrInvalid, "budget_usd must be positive, got %.2f", c.BudgetUSD)
	}
	if c.Agent.Bin == "" {
		return errors.Wrap(ErrInvalid, "agent bin is required")
	}
	if c.Agent.Model == "" {
		return errors.Wrap(ErrInvalid, "agent model is required")
	}
	if c.Agent.JudgeModel == "" {
		return errors.Wrap(ErrInvalid, "judge model is required")
	}
	if c.Agent.TimeoutMinutes < 1 {
		return errors.Wrapf(ErrInvalid, "timeout_minutes must be at least 1, got %d", c.Agent.TimeoutMinutes)
	}
	return nil
}
