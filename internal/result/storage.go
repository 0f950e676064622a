package result

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

func CreateRunDir(baseDir string) (string, error) {
	runsDir := filepath.Join(baseDir, "runs")
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	runDir := filepath.Join(runsDir, stamp)
	runDir, err := filepath.Abs(runDir)
	if err != nil {
		return "", errors.Wrap(err, "resolving run dir")
	}
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating run dir")
	}
	latest := filepath.Join(baseDir, "latest")
	os.Remove(latest)
	if err := os.Symlink(runDir, latest); err != nil {
		return "", errors.Wrap(err, "creating latest symlink")
	}
	return runDir, nil
}

func TrialDir(runDir string, trial int) string {
	return filepath.Join(runDir, "trials", fmt.Sprintf("trial-%d", trial))
}

// WriteTrialArtifacts persists the raw prompt and both responses so a
// run can be audited (or re-judged) after the fact. Responses are
// written even when they are failure sentinels.
func WriteTrialArtifacts(trialDir string, t *Trial) error {
	if err := os.MkdirAll(trialDir, 0o755); err != nil {
		return errors.Wrap(err, "creating trial dir")
	}
	files := map[string]string{
		"prompt.txt":   t.Prompt,
		"control.md":   t.Control,
		"treatment.md": t.Treatment,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(trialDir, name), []byte(content), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
	}
	return nil
}

func WriteScores(trialDir string, rec *ScoreRecord) error {
	if err := os.MkdirAll(trialDir, 0o755); err != nil {
		return errors.Wrap(err, "creating trial dir")
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling scores")
	}
	return os.WriteFile(filepath.Join(trialDir, "scores.json"), data, 0o644)
}

func ReadScores(path string) (*ScoreRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading scores")
	}
	var rec ScoreRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "parsing scores")
	}
	return &rec, nil
}
