// Package workspace manages isolated scratch directories so control
// and treatment runs never see each other's files.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Manager struct {
	Root string
}

func NewManager(root string) *Manager {
	return &Manager{Root: root}
}

// DefaultSeeds is the scaffolding both conditions start from. Identical
// seed files keep the comparison fair: the only difference between the
// two runs is the attached skill.
func DefaultSeeds() map[string]string {
	return map[string]string{
		"package.json": "{\n  \"name\": \"scratch-project\",\n  \"version\": \"0.1.0\",\n  \"private\": true\n}\n",
		"README.md":    "# Scratch Project\n\nWorking directory for an evaluation run.\n",
	}
}

// Create makes a unique, previously-nonexistent directory and writes
// the seed files before returning the path. The role and a UUID in the
// path make collisions impossible under parallel trials.
func (m *Manager) Create(role string, seeds map[string]string) (string, error) {
	dir := filepath.Join(m.Root, fmt.Sprintf("ws-%s-%s", role, uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating workspace")
	}
	for rel, content := range seeds {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", errors.Wrapf(err, "creating seed dir for %s", rel)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", errors.Wrapf(err, "writing seed %s", rel)
		}
	}
	return dir, nil
}

// Destroy recursively removes a workspace. It refuses anything outside
// the manager's root.
func (m *Manager) Destroy(dir string) error {
	rel, err := filepath.Rel(m.Root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return errors.Errorf("refusing to remove %s: outside workspace root %s", dir, m.Root)
	}
	return os.RemoveAll(dir)
}
